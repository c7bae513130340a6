package event

import "sync"

// Iteration is published once per completed EM pass, after the M-step, so
// subscribers always observe a fully renormalized table.
type Iteration struct {
	Number        int
	LogLikelihood float64
	Delta         float64
}

type Subscriber interface {
	HandleTrainEvent(ev *Iteration)
}

// Bus fans training progress out to registered subscribers. Delivery is
// synchronous and in registration order; training itself is a strictly
// sequential loop, so there is nothing to gain from buffering here.
type Bus struct {
	mutex sync.RWMutex
	subs  []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Register(sub Subscriber) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, s := range b.subs {
		if s == sub {
			return
		}
	}
	b.subs = append(b.subs, sub)
}

func (b *Bus) UnRegister(sub Subscriber) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(ev *Iteration) {
	b.mutex.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mutex.RUnlock()

	for _, s := range subs {
		s.HandleTrainEvent(ev)
	}
}
