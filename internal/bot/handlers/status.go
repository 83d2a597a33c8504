package handlers

import (
	"context"
	"fmt"
	"time"
)

// Status reports the uptime, the NSFW mode, the all-time request total and
// the bot version.
func (s *Set) Status(ctx context.Context, req *Request) error {
	total, err := s.deps.Counter.Total()
	if err != nil {
		return fmt.Errorf("read request total: %w", err)
	}

	uptime := formatUptime(time.Since(s.deps.StartedAt))

	return s.reply(ctx, req, "Status", s.deps.Version, uptime, s.switchWord(req, req.NSFW()), total)
}

// formatUptime renders a duration as days plus hh:mm:ss.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	d -= time.Duration(days) * 24 * time.Hour

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, seconds)
}
