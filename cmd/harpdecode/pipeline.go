// cmd/harpdecode/pipeline.go
package main

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/harp-expander/internal/feed"
	"github.com/tamzrod/harp-expander/internal/metrics"
	"github.com/tamzrod/harp-expander/internal/mirror"
	"github.com/tamzrod/harp-expander/internal/register"
	"github.com/tamzrod/harp-expander/internal/status"
)

// pipeline owns the per-stream state: snapshot, mirror writers and counters.
// Only the consumer goroutine touches it.
type pipeline struct {
	id      string
	log     *logrus.Entry
	metrics *metrics.Metrics

	data          mirror.Writer // nil when mirroring is off
	status        mirror.StatusWriter
	statusEnabled bool

	snap status.Snapshot
}

func (p *pipeline) consume(in <-chan feed.Result) {
	// Full block write on start (identity re-assert) if enabled.
	p.writeStatus("start")

	for res := range in {
		p.handle(res)
	}

	p.snap.Health = status.HealthDrained
	p.writeStatus("drain")
	p.log.WithFields(logrus.Fields{
		"decoded":  p.snap.Decoded,
		"rejected": p.snap.Rejected,
	}).Info("stream drained")
}

func (p *pipeline) handle(res feed.Result) {
	if res.Err != nil {
		p.metrics.Rejected.WithLabelValues(p.id, metrics.Reason(res.Err)).Inc()
		p.log.WithFields(logrus.Fields{
			"index":   res.Index,
			"address": res.Message.Address,
		}).WithError(res.Err).Warn("message rejected")

		p.snap.Reject(errorCode(res.Err))
		p.writeStatus("reject")
		return
	}

	r := res.Reading
	p.metrics.Decoded.WithLabelValues(p.id, r.Register.Name).Inc()

	fields := logrus.Fields{
		"index":    res.Index,
		"register": r.Register.Name,
		"address":  r.Register.Address,
		"kind":     r.Type.String(),
		"value":    r.Value,
	}
	if r.HasTimestamp {
		fields["seconds"] = r.Seconds
	}
	p.log.WithFields(fields).Debug("reading")

	if r.Register.Address == register.WhoAmI.Address() {
		if err := register.CheckWhoAmI(r); err != nil {
			p.log.WithError(err).Warn("unexpected device identity")
		}
	}

	p.snap.Accept()

	if p.data != nil {
		ok, err := p.data.Write(r)
		switch {
		case err != nil:
			p.metrics.MirrorWrites.WithLabelValues(p.id, "error").Inc()
			p.log.WithError(err).Error("mirror write failed")
		case ok:
			p.metrics.MirrorWrites.WithLabelValues(p.id, "ok").Inc()
		}
	}

	p.writeStatus("accept")
}

func (p *pipeline) writeStatus(stage string) {
	if !p.statusEnabled {
		return
	}
	if err := p.status.WriteStatus(p.snap); err != nil {
		p.log.WithError(err).WithField("stage", stage).Error("status write failed")
	}
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns status.ErrorCodeGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	if metrics.Reason(err) == "frame" {
		return status.ErrorCodeFrame
	}

	return status.ErrorCodeGeneric
}
