package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	tag  string
	seen []*Iteration
	log  *[]string
}

func (r *recorder) HandleTrainEvent(ev *Iteration) {
	r.seen = append(r.seen, ev)
	if r.log != nil {
		*r.log = append(*r.log, r.tag)
	}
}

func TestBusPublish(t *testing.T) {
	b := NewBus()
	r := &recorder{}
	b.Register(r)

	b.Publish(&Iteration{Number: 1, LogLikelihood: -3.5, Delta: 0.2})
	b.Publish(&Iteration{Number: 2, LogLikelihood: -3.1, Delta: 0.1})

	assert.Len(t, r.seen, 2)
	assert.Equal(t, 2, r.seen[1].Number)
	assert.Equal(t, 0.1, r.seen[1].Delta)
}

func TestBusRegisterDedupe(t *testing.T) {
	b := NewBus()
	r := &recorder{}
	b.Register(r)
	b.Register(r)

	b.Publish(&Iteration{Number: 1})
	assert.Len(t, r.seen, 1)
}

func TestBusOrderAndUnRegister(t *testing.T) {
	b := NewBus()
	var order []string
	r1 := &recorder{tag: "a", log: &order}
	r2 := &recorder{tag: "b", log: &order}
	b.Register(r1)
	b.Register(r2)

	b.Publish(&Iteration{Number: 1})
	assert.Equal(t, []string{"a", "b"}, order)

	b.UnRegister(r1)
	b.Publish(&Iteration{Number: 2})
	assert.Equal(t, []string{"a", "b", "b"}, order)
	assert.Len(t, r1.seen, 1)
	assert.Len(t, r2.seen, 2)
}
