package state

import (
	"sync"
	"time"
)

// Manager хранит сессии мастеров в памяти. Ключ - произвольная строка,
// обычно "<мастер>:<id пользователя>", поэтому один пользователь может вести несколько мастеров.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*UserData
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[string]*UserData),
		now:    time.Now,
	}
}

// GetState получает текущее состояние
func (sm *Manager) GetState(key string) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[key]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние. StateNone удаляет запись вместе с данными.
func (sm *Manager) SetState(key string, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, key)
		return
	}

	userData := sm.entry(key)
	userData.State = state
	userData.UpdatedAt = sm.now()
}

// GetData получает временные данные
func (sm *Manager) GetData(key, name string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[key]; exists {
		value, ok := userData.Data[name]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные, создавая запись при необходимости
func (sm *Manager) SetData(key, name string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData := sm.entry(key)
	userData.Data[name] = value
	userData.UpdatedAt = sm.now()
}

// ClearState очищает состояние и данные
func (sm *Manager) ClearState(key string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, key)
}

// GetAllData возвращает копию всех данных записи
func (sm *Manager) GetAllData(key string) map[string]interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[key]; exists {
		dataCopy := make(map[string]interface{}, len(userData.Data))
		for k, v := range userData.Data {
			dataCopy[k] = v
		}
		return dataCopy
	}
	return nil
}

// EvictIdle удаляет записи, не менявшиеся дольше ttl, и возвращает их количество
func (sm *Manager) EvictIdle(ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	deadline := sm.now().Add(-ttl)
	var evicted int
	for key, userData := range sm.states {
		if userData.UpdatedAt.Before(deadline) {
			delete(sm.states, key)
			evicted++
		}
	}
	return evicted
}

// Len - количество активных записей
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.states)
}

func (sm *Manager) entry(key string) *UserData {
	userData, exists := sm.states[key]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
		sm.states[key] = userData
	}
	return userData
}
