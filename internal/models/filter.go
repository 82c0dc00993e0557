// Package models содержит параметры фильтрации публичной ленты статей.
// Здесь определены как структуры для внутреннего использования в бизнес‑логике,
// так и для приёма данных из query-параметров запроса.
package models

// ArticleFilter представляет параметры фильтрации, которые передаются в слой доступа к данным.
// Лента всегда ограничена одобренными статьями, фильтр только сужает её.
type ArticleFilter struct {
	Search    string   // Подстрока заголовка без учёта регистра
	Publisher string   // Название издателя
	Tags      []string // Статья подходит, если содержит хотя бы один из тегов
	Limit     int      // Размер страницы
	Offset    int      // Смещение страницы
}
