package action

import "sync"

// Bus fans actions and render requests out to subscribers. Delivery is synchronous and in
// registration order.
type Bus struct {
	nextID  int
	actions []actionSubscriber
	renders []renderSubscriber
	lock    sync.RWMutex
}

type actionSubscriber struct {
	id int
	fn func(Action)
}

type renderSubscriber struct {
	id int
	fn func()
}

// Subscribe registers fn for every performed or undone action. Call the returned func to
// unsubscribe.
func (b *Bus) Subscribe(fn func(Action)) func() {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := b.nextID
	b.nextID++
	b.actions = append(b.actions, actionSubscriber{id: id, fn: fn})

	return func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		for i, sub := range b.actions {
			if sub.id == id {
				b.actions = append(b.actions[:i:i], b.actions[i+1:]...)
				return
			}
		}
	}
}

// SubscribeRender registers fn for render requests. Call the returned func to unsubscribe.
func (b *Bus) SubscribeRender(fn func()) func() {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := b.nextID
	b.nextID++
	b.renders = append(b.renders, renderSubscriber{id: id, fn: fn})

	return func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		for i, sub := range b.renders {
			if sub.id == id {
				b.renders = append(b.renders[:i:i], b.renders[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) emit(a Action) {
	b.lock.RLock()
	subs := append([]actionSubscriber(nil), b.actions...)
	b.lock.RUnlock()

	for _, sub := range subs {
		sub.fn(a)
	}
}

func (b *Bus) emitRender() {
	b.lock.RLock()
	subs := append([]renderSubscriber(nil), b.renders...)
	b.lock.RUnlock()

	for _, sub := range subs {
		sub.fn()
	}
}
