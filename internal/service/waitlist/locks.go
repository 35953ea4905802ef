package waitlist

import "sync"

// groupLocks сериализует операции внутри одной группы листа ожидания.
// Мьютексы создаются лениво по ключу группы и не удаляются: число групп
// ограничено числом комбинаций салон/услуга/мастер.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock блокирует группу и возвращает функцию разблокировки
func (g *groupLocks) Lock(key string) func() {
	g.mu.Lock()
	m, ok := g.locks[key]
	if !ok {
		m = &sync.Mutex{}
		g.locks[key] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}
