package screenapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func (h *Handler) checkIPThrottle(ctx context.Context, ip net.IP, now time.Time) (bool, time.Duration, error) {
	if ip == nil || h.cfg.CheckIPMax <= 0 || !h.dbEnabled || h.pool == nil {
		return false, 0, nil
	}
	cut := now.Add(-h.cfg.CheckIPWindow)
	checks, err := recentChecksByIP(ctx, h.pool, ip, cut)
	if err != nil {
		return false, 0, err
	}
	blocked, retry := evaluateWindowThrottle(now, checks, h.cfg.CheckIPMax, h.cfg.CheckIPWindow)
	return blocked, retry, nil
}

// evaluateWindowThrottle blocks once max events fall inside the sliding
// window; retry is when the earliest in-window event ages out.
func evaluateWindowThrottle(now time.Time, events []time.Time, max int, window time.Duration) (bool, time.Duration) {
	if max <= 0 {
		return false, 0
	}

	cut := now.Add(-window)
	var inWindow int
	var earliest time.Time
	for _, ev := range events {
		if ev.Before(cut) {
			continue
		}
		inWindow++
		if earliest.IsZero() || ev.Before(earliest) {
			earliest = ev
		}
	}

	if inWindow < max {
		return false, 0
	}
	retry := earliest.Add(window).Sub(now)
	if retry < 0 {
		retry = 0
	}
	return true, retry
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
	}
	writeError(w, http.StatusTooManyRequests, "rate_limited", "too many checks")
}

// ---- audit queries ----

func recentChecksByIP(ctx context.Context, pool *pgxpool.Pool, ip net.IP, since time.Time) ([]time.Time, error) {
	if pool == nil || ip == nil {
		return nil, nil
	}

	rows, err := pool.Query(ctx, `
		SELECT created_at
		FROM breachscan.audit_log
		WHERE action = 'screen.check'
		  AND ip = $1
		  AND created_at >= $2
		ORDER BY created_at DESC
	`, ip.String(), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
