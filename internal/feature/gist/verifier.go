package gist

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gistsync-api/internal/domain"
)

var lookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "gist_lookups_total", Help: "Gist verifications by outcome"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(lookups) }

// Verifier 校验 gist 是否属于本系统（必须含 marker 文件）
type Verifier struct {
	fetcher Fetcher
	marker  string
	timeout time.Duration
	log     *zap.Logger
}

func NewVerifier(f Fetcher, marker string, timeout time.Duration, l *zap.Logger) *Verifier {
	if l == nil {
		l = zap.NewNop()
	}
	return &Verifier{fetcher: f, marker: marker, timeout: timeout, log: l}
}

func (v *Verifier) Marker() string { return v.marker }

// Resolve 纯查询：空 id 返回空列表
func (v *Verifier) Resolve(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		return []string{}, nil
	}
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}
	files, err := v.fetcher.FetchFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Verify 绑定到账号前的校验
func (v *Verifier) Verify(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		lookups.WithLabelValues("no_id").Inc()
		return nil, domain.ErrNoGistID
	}
	files, err := v.Resolve(ctx, id)
	if err != nil {
		lookups.WithLabelValues("error").Inc()
		v.log.Warn("gist lookup failed", zap.String("gist_id", id), zap.Error(err))
		return nil, domain.GistLookupFailed(err)
	}
	if len(files) == 0 {
		lookups.WithLabelValues("not_found").Inc()
		return nil, domain.ErrGistNotFound
	}
	for _, f := range files {
		if f == v.marker {
			lookups.WithLabelValues("ok").Inc()
			return files, nil
		}
	}
	lookups.WithLabelValues("invalid").Inc()
	return nil, domain.ErrInvalidGist
}
