package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/schollz/progressbar/v3"
)

// RuleProgress renders a progress bar advancing once per applied industry rule.
type RuleProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewRuleProgress creates a progress bar for total rules.
func NewRuleProgress(writer io.Writer, total int) *RuleProgress {
	p := &RuleProgress{writer: writer}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Applying industry rules...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// RuleApplied advances the bar. It implements engine.Observer.
func (p *RuleProgress) RuleApplied(_ model.IndustryRule, _, _ int) {
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (p *RuleProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
