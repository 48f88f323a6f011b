package services

import "sync"

// keyedMutex - мьютекс на каждый ключ. Записи удаляются, когда ими никто не пользуется.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int]*refMutex)}
}

// Lock блокирует ключ и возвращает функцию разблокировки.
func (k *keyedMutex) Lock(key int) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.mu.Lock()

	return func() {
		m.mu.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// BracketLocks сериализует изменения сетки внутри процесса.
// Порядок захвата всегда: баттл, следующий за ним баттл, потом событие.
// Сетка ведет только вверх, поэтому цикла ожидания нет.
type BracketLocks struct {
	battles *keyedMutex
	event   sync.Mutex
}

func NewBracketLocks() *BracketLocks {
	return &BracketLocks{battles: newKeyedMutex()}
}

func (l *BracketLocks) lockBattle(battleID int) func() {
	return l.battles.Lock(battleID)
}

// lockEvent защищает счетчик события и слоты родительских баттлов.
func (l *BracketLocks) lockEvent() func() {
	l.event.Lock()
	return l.event.Unlock
}
