package screenapi

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"breachscan/cmd/internal/screen/ids"
)

// Audit records carry request metadata and outcomes only. No secret, no
// digest, no prefix, no suffix: hash material never reaches the database.

func (h *Handler) auditCheck(ctx context.Context, outcome string, ip net.IP, ua string, dur time.Duration) {
	h.insertAudit(ctx, "screen.check", ip, ua, map[string]any{
		"outcome":     outcome,
		"duration_ms": dur.Milliseconds(),
	})
}

func (h *Handler) auditRateLimited(ctx context.Context, ip net.IP, ua string, retryAfter time.Duration) {
	h.insertAudit(ctx, "screen.rate_limited", ip, ua, map[string]any{
		"retry_after_s": int64(retryAfter.Seconds()),
	})
}

func (h *Handler) insertAudit(ctx context.Context, action string, ip net.IP, ua string, meta map[string]any) {
	if h == nil || h.pool == nil || !h.dbEnabled {
		return
	}

	action = strings.TrimSpace(action)
	if action == "" {
		return
	}

	id, err := ids.NewULID(time.Now().UTC())
	if err != nil {
		h.log.Error("screen.audit.id.fail", "err", err)
		return
	}

	var ipVal any
	if ip != nil {
		ipVal = ip.String()
	}

	var metaVal *string
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			s := string(b)
			metaVal = &s
		}
	}

	_, err = h.pool.Exec(ctx, `
		INSERT INTO breachscan.audit_log (
			id, action, created_at, ip, user_agent, meta
		) VALUES ($1, $2, now(), $3, $4, $5::jsonb)
	`, id, action, ipVal, trimOrNil(ua), metaVal)
	if err != nil {
		h.log.Error("screen.audit.insert.fail", "err", err, "action", action)
	}
}

func trimOrNil(s string) any {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return v
}
