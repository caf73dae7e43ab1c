package payroll

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"session-sync/core/mail"
	"session-sync/core/table"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service computes pay totals and sends approval notifications.
type Service struct {
	cfg    Config
	table  table.Store
	mail   mail.Sender
	logger *zap.Logger
	now    func() time.Time
	pass   singleflight.Group
}

// NewService creates a payroll service.
func NewService(cfg Config, store table.Store, sender mail.Sender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		table:  store,
		mail:   sender,
		logger: logger.With(zap.String("feature", "payroll")),
		now:    time.Now,
	}
}

// Action is what a run did, or would do, with one entry.
type Action struct {
	Position int     `json:"position"`
	Employee string  `json:"employee"`
	TotalPay float64 `json:"total_pay"`
	Status   string  `json:"status"`
	// WroteTotal is set when the Total Pay cell changed.
	WroteTotal bool `json:"wrote_total"`
	// Notified is set when an approval email was sent in this run.
	Notified bool   `json:"notified"`
	Reason   string `json:"reason,omitempty"`
}

// Report is the outcome of a payroll run.
type Report struct {
	DryRun          bool     `json:"dry_run"`
	Shared          bool     `json:"shared"`
	Entries         int      `json:"entries"`
	TotalsWritten   int      `json:"totals_written"`
	Notified        int      `json:"notified"`
	AlreadyNotified int      `json:"already_notified"`
	Skipped         int      `json:"skipped"`
	Payroll         float64  `json:"payroll"`
	Actions         []Action `json:"actions"`
}

// Run reads the timesheet, writes every entry's total pay and emails the decision of
// each approved or rejected entry that was not notified yet. Each email is followed by
// a Notified stamp on its row, so a re-run never sends twice. A dry run only reports.
// Concurrent runs over the same sheet share one pass.
func (s *Service) Run(ctx context.Context, dryRun bool) (*Report, error) {
	key := s.cfg.Sheet
	if dryRun {
		key += "|dry-run"
	}
	v, err, shared := s.pass.Do(key, func() (any, error) {
		return s.run(ctx, dryRun)
	})
	report, _ := v.(*Report)
	if report != nil && shared {
		cp := *report
		cp.Shared = true
		report = &cp
	}
	return report, err
}

func (s *Service) run(ctx context.Context, dryRun bool) (*Report, error) {
	values, err := s.table.ReadRows(ctx, s.cfg.Sheet)
	if err != nil {
		return nil, err
	}
	entries, err := ParseEntries(values)
	if err != nil {
		return nil, err
	}

	report := &Report{DryRun: dryRun, Entries: len(entries), Actions: make([]Action, 0, len(entries))}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		action, err := s.process(ctx, entry, dryRun)
		report.Actions = append(report.Actions, action)
		report.Payroll += action.TotalPay
		if action.WroteTotal {
			report.TotalsWritten++
		}
		if action.Notified {
			report.Notified++
		}
		if err != nil {
			s.logger.Error("Payroll run failed", zap.Int("row", entry.Position), zap.Error(err))
			return report, err
		}
		switch {
		case !entry.HasDecision():
			report.Skipped++
		case entry.Notified != "":
			report.AlreadyNotified++
		case !action.Notified:
			report.Skipped++
		}
	}
	report.Payroll = math.Round(report.Payroll*100) / 100

	s.logger.Info("Payroll run completed",
		zap.Bool("dry_run", dryRun),
		zap.Int("entries", report.Entries),
		zap.Int("totals_written", report.TotalsWritten),
		zap.Int("notified", report.Notified),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (s *Service) process(ctx context.Context, entry Entry, dryRun bool) (Action, error) {
	total := ComputePay(entry.Rate, entry.Hours, s.cfg.OvertimeThreshold, s.cfg.OvertimeMultiplier)
	action := Action{Position: entry.Position, Employee: entry.Employee, TotalPay: total, Status: entry.Status}

	if entry.TotalPay == nil || *entry.TotalPay != total {
		action.WroteTotal = true
		if !dryRun {
			if err := s.table.WriteRange(ctx, s.cfg.Sheet, entry.Position, ColTotalPay, [][]any{{total}}); err != nil {
				action.WroteTotal = false
				return action, fmt.Errorf("failed to write total pay: %w", err)
			}
		}
	}

	switch {
	case !entry.HasDecision():
		if entry.Status != "" {
			action.Reason = "unknown status"
		} else {
			action.Reason = "pending"
		}
		return action, nil
	case entry.Notified != "":
		action.Reason = "already notified"
		return action, nil
	case entry.Email == "":
		action.Reason = "no email"
		s.logger.Warn("Timesheet entry has no email", zap.String("employee", entry.Employee))
		return action, nil
	}

	action.Notified = true
	if dryRun {
		return action, nil
	}

	msg := mail.Message{
		To:      []string{entry.Email},
		Subject: s.cfg.Subject,
		Body:    s.notificationBody(entry, total),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		action.Notified = false
		return action, fmt.Errorf("failed to notify %s: %w", entry.Employee, err)
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	if err := s.table.WriteRange(ctx, s.cfg.Sheet, entry.Position, ColNotified, [][]any{{stamp}}); err != nil {
		return action, fmt.Errorf("failed to stamp notification: %w", err)
	}
	return action, nil
}

func (s *Service) notificationBody(entry Entry, total float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", entry.Employee)
	if entry.Status == StatusApproved {
		sb.WriteString("your timesheet has been approved.\n\n")
	} else {
		sb.WriteString("your timesheet has not been approved. Please review your hours and resubmit.\n\n")
	}
	fmt.Fprintf(&sb, "Hours: %.2f\n", entry.Hours)
	fmt.Fprintf(&sb, "Hourly rate: %s\n", FormatAmount(s.cfg.Currency, entry.Rate))
	fmt.Fprintf(&sb, "Total pay: %s\n", FormatAmount(s.cfg.Currency, total))
	return sb.String()
}
