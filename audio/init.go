// Package audio holds the per-sample building blocks of the patches: range
// mapping, smoothing, rate gating, onset detection, resonators and sample
// voices. Units that depend on the sample rate implement Initer and are set
// up with Init before the first sample.
package audio

import (
	"fmt"
	"reflect"
	"strings"
)

type Initer interface {
	InitAudio(Params)
}

// Params describes the stream a unit runs in.
type Params struct {
	SampleRate float64
}

func (p *Params) InitAudio(q Params) { *p = q }

var initerType = reflect.TypeFor[Initer]()

// Init sets up x for p. If x is an Initer it is initialised; otherwise Init
// descends into its exported struct fields, array and slice elements and map
// values and initialises every Initer it finds there. Nil pointers are
// skipped. Init panics if it meets a unit whose InitAudio has a pointer
// receiver but which is not addressable, since that unit could never be set
// up.
func Init(x any, p Params) {
	w := initWalk{params: p}
	w.visit(reflect.ValueOf(x))
	if w.err != "" {
		panic("audio.Init: " + w.err)
	}
}

type initWalk struct {
	params Params
	path   []string
	err    string
}

func (w *initWalk) visit(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		if w.tryInit(v) {
			return
		}
		v = v.Elem()
	}
	if v.CanAddr() && w.tryInit(v.Addr()) || w.tryInit(v) {
		return
	}
	if reflect.PointerTo(v.Type()).Implements(initerType) {
		w.fail("%s does not implement audio.Initer but *%s does", v.Type(), v.Type())
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			w.descend("."+t.Field(i).Name, v.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			w.descend(fmt.Sprintf("[%d]", i), v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			w.descend(fmt.Sprintf("[%v]", iter.Key()), iter.Value())
		}
	}
}

func (w *initWalk) descend(name string, v reflect.Value) {
	if w.err != "" {
		return
	}
	w.path = append(w.path, name)
	w.visit(v)
	w.path = w.path[:len(w.path)-1]
}

func (w *initWalk) tryInit(v reflect.Value) bool {
	if !v.CanInterface() {
		return false
	}
	u, ok := v.Interface().(Initer)
	if ok {
		u.InitAudio(w.params)
	}
	return ok
}

func (w *initWalk) fail(format string, args ...any) {
	w.err = fmt.Sprintf(format, args...)
	if len(w.path) > 0 {
		w.err = strings.TrimPrefix(strings.Join(w.path, ""), ".") + ": " + w.err
	}
}
