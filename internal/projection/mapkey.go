package projection

import "nested/internal/port"

type mapKeyView[InK, OutK comparable, T any] struct {
	upstream port.IndexView[InK, T]
	fwd      func(InK) OutK
	rev      func(OutK) (InK, bool)
}

func (v *mapKeyView[InK, OutK, T]) Get(k OutK) (T, bool) {
	var zero T
	inK, ok := v.rev(k)
	if !ok {
		return zero, false
	}
	return v.upstream.Get(inK)
}

func (v *mapKeyView[InK, OutK, T]) Keys() []OutK {
	if v.upstream == nil {
		return nil
	}
	inKeys := v.upstream.Keys()
	out := make([]OutK, len(inKeys))
	for i, k := range inKeys {
		out[i] = v.fwd(k)
	}
	return out
}

// MapKey returns an Index port whose keys are translated by fwd/rev. Both
// directions are required since a key-changed message must be translated
// forward to notify, and a lookup on the output side must translate
// backward to query upstream.
func MapKey[InK, OutK comparable, T any](upstream port.Outer[port.IndexMsg[InK]], fwd func(InK) OutK, rev func(OutK) (InK, bool)) *port.Port[port.IndexMsg[OutK]] {
	out := port.New[port.IndexMsg[OutK]]()

	wireIndex[InK, T](upstream,
		func(v port.IndexView[InK, T]) {
			out.SetView(&mapKeyView[InK, OutK, T]{upstream: v, fwd: fwd, rev: rev})
		},
		func(msg port.IndexMsg[InK]) {
			switch msg.Kind {
			case port.IndexMsgKey:
				out.Notify(port.KeyChanged(fwd(msg.Key)))
			case port.IndexMsgArea:
				out.Notify(port.AreaChanged(port.FullArea[OutK]()))
			}
		},
	)

	return out
}
