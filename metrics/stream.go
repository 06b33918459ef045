package metrics

import (
	"time"

	"github.com/reactivex/rxgo/v2"
)

// ForwardTimeline buffers every Sample the observable emits. Items of any
// other type are logged and dropped, as are stream errors. The returned
// channel closes when the stream completes.
func (r *Reporter) ForwardTimeline(observable rxgo.Observable) rxgo.Disposed {
	return observable.ForEach(func(v interface{}) {
		var sample Sample
		switch s := v.(type) {
		case Sample:
			sample = s
		case *Sample:
			sample = *s
		default:
			r.logger.Errorf("dropping timeline stream item of unexpected type %T", v)
			return
		}

		if sample.Time.IsZero() {
			sample.Time = time.Now().UTC()
		}
		r.ObserveAt(sample.Key, sample.Time, sample.Value)
	}, func(err error) {
		r.logger.WithError(err).Error("timeline stream failed")
	}, func() {})
}
