package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marketmind-ai/marketmind/consts"
	"github.com/marketmind-ai/marketmind/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	approvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	rejectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// RenderRunSummary formats one finished pipeline run for the terminal. Every
// recorded error is always listed, approved or not.
func RenderRunSummary(state *models.PipelineState) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("MarketMind decision for %s", state.Symbol)))
	sb.WriteString("\n\n")

	sb.WriteString(renderAnalysts(state))
	sb.WriteString(renderDebate(state))
	sb.WriteString(renderProposal(state))
	sb.WriteString(renderGates(state))
	sb.WriteString(renderExecution(state))
	sb.WriteString(renderErrors(state))

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("completed %s in %s",
		time.Now().Format("2006-01-02 15:04:05"),
		time.Since(state.StartTime).Round(time.Millisecond))))
	sb.WriteString("\n")

	return sb.String()
}

// PrintRunSummary writes the summary to stdout.
func PrintRunSummary(state *models.PipelineState) {
	fmt.Print(RenderRunSummary(state))
}

func renderAnalysts(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Analyst reports") + "\n")

	for _, key := range []string{
		consts.AnalystFundamentals, consts.AnalystTechnical, consts.AnalystSentiment,
		consts.AnalystMacroNews, consts.AnalystNewsNLP, consts.AnalystGenerative,
	} {
		report, ok := state.Report(key)
		if !ok {
			sb.WriteString(fmt.Sprintf("  %-14s %s\n", key, errorStyle.Render("failed")))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-14s confidence %.2f  %s\n",
			key, report.Confidence, truncate(firstLine(report.Summary), 44)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderDebate(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render(fmt.Sprintf("Debate (%d rounds)", state.DebateRounds)) + "\n")

	if len(state.DebateArguments) == 0 {
		sb.WriteString(mutedStyle.Render("  no arguments recorded") + "\n\n")
		return sb.String()
	}

	for _, arg := range state.DebateArguments {
		sb.WriteString(fmt.Sprintf("  [round %d] %s (%.2f): %s\n",
			arg.Round, arg.Position, arg.Confidence, truncate(firstLine(arg.Argument), 50)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderProposal(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Strategy") + "\n")

	p := state.Proposal
	if p == nil {
		sb.WriteString(mutedStyle.Render("  no proposal produced") + "\n\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  %s %s, %.2f%% of portfolio, confidence %.2f\n",
		p.Kind, p.Direction, p.PositionSizePct*100, p.Confidence))
	sb.WriteString("  " + wordWrap(p.Rationale, 72, "  ") + "\n\n")
	return sb.String()
}

func renderGates(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Approval gates") + "\n")

	sb.WriteString("  risk gate:      " + verdict(state.RiskApproved) + "\n")
	if state.Risk != nil {
		if state.Risk.Recommendation != "" {
			sb.WriteString("    " + wordWrap(state.Risk.Recommendation, 70, "    ") + "\n")
		}
		for _, w := range state.Risk.Warnings {
			sb.WriteString("    " + mutedStyle.Render("warning: "+w) + "\n")
		}
	}

	sb.WriteString("  portfolio gate: ")
	if state.Decision == nil {
		sb.WriteString(mutedStyle.Render("not reached") + "\n")
	} else {
		sb.WriteString(verdict(state.FinalApproval) + "\n")
		sb.WriteString("    " + wordWrap(state.Decision.Rationale, 70, "    ") + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderExecution(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Execution") + "\n")

	if state.Plan != nil && len(state.Plan.Orders) > 0 {
		for _, order := range state.Plan.Orders {
			price := order.LimitPrice
			if order.Type == models.OrderStop {
				price = order.StopPrice
			}
			sb.WriteString(fmt.Sprintf("  %s %d %s @ %s (%s)\n",
				order.Side, order.Quantity, order.Symbol, price.StringFixed(2), order.Type))
		}
	}

	switch {
	case state.ExecDecision != nil:
		sb.WriteString(fmt.Sprintf("  decision: %s (confidence %.2f via %s, %s)\n",
			state.ExecDecision.Action, state.ExecDecision.Confidence,
			state.ExecDecision.Source, state.ExecDecision.Latency))
	case state.ExecutionComplete:
		sb.WriteString(mutedStyle.Render("  nothing to execute") + "\n")
	default:
		sb.WriteString(mutedStyle.Render("  not attempted") + "\n")
	}

	if state.OrdersSubmitted {
		sb.WriteString(approvedStyle.Render("  orders submitted") + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderErrors(state *models.PipelineState) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render(fmt.Sprintf("Recorded errors (%d)", len(state.Errors))) + "\n")

	if len(state.Errors) == 0 {
		sb.WriteString(mutedStyle.Render("  none") + "\n\n")
		return sb.String()
	}
	for _, e := range state.Errors {
		sb.WriteString("  " + errorStyle.Render(truncate(e, 74)) + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func verdict(approved bool) string {
	if approved {
		return approvedStyle.Render("APPROVED")
	}
	return rejectedStyle.Render("REJECTED")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			sb.WriteString(line + "\n" + indent)
			line = word
			continue
		}
		line += " " + word
	}
	sb.WriteString(line)
	return sb.String()
}
