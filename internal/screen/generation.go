package screen

import "sync/atomic"

// Ticket помечает один запуск загрузки списка.
type Ticket uint64

// Generation выдаёт возрастающие билеты; применять можно только результат
// последнего выданного билета.
type Generation struct {
	current atomic.Uint64
}

// Next выдаёт новый билет и делает все предыдущие устаревшими.
func (g *Generation) Next() Ticket {
	return Ticket(g.current.Add(1))
}

// IsCurrent сообщает, что билет последний.
func (g *Generation) IsCurrent(t Ticket) bool {
	return t != 0 && uint64(t) == g.current.Load()
}
