// Package statusflow translates a transaction's free-text status into the
// name of the next approval stage. The result is a display hint for the
// dashboard's "Next Stage" column: any fault degrades to "Unknown" rather
// than propagating, so one bad row never blanks out the rest.
package statusflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tradeflow-io/tradeflow/pkg/models"
	"github.com/tradeflow-io/tradeflow/pkg/resolver"
)

const (
	// NextStageCompleted marks a transaction with no remaining stages.
	NextStageCompleted = "Completed"

	// NextStageNone marks a rejected transaction; there is no next stage.
	NextStageNone = "-"

	// NextStageUnknown is the total-function fallback for any state the
	// translator cannot interpret.
	NextStageUnknown = "Unknown"

	// defaultProcessType applies when a transaction carries no process type.
	defaultProcessType = "Issuance"

	// defaultEventCode applies to process types absent from the lookup table.
	defaultEventCode = "ISS"

	// completedSuffix is the structured status convention: "<stage> Completed".
	// The suffix match is case-sensitive against the original status.
	completedSuffix = " Completed"

	// lastStageFallback is returned when the completed stage is already the
	// template's last. The hardcoded label mirrors long-standing observable
	// behavior even for templates whose last stage is named differently.
	// TODO: make the terminal label configurable per template.
	lastStageFallback = "Final Approval"
)

// Translator computes next-stage labels for dashboard rows.
type Translator struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
}

func NewTranslator(r *resolver.Resolver, logger *slog.Logger) *Translator {
	return &Translator{
		resolver: r,
		logger:   logger.With("module", "statusflow"),
	}
}

// NextStage returns the name of the stage following the transaction's
// current status. Total over all inputs: it always returns a non-empty
// label and never fails.
func (t *Translator) NextStage(ctx context.Context, txn models.TransactionSummary) string {
	status := strings.TrimSpace(txn.Status)

	// Terminal statuses are absolute regardless of template configuration.
	switch strings.ToLower(status) {
	case "issued":
		return NextStageCompleted
	case "rejected":
		return NextStageNone
	case "draft":
		return "Data Entry"
	}

	productCode := txn.ProductType
	if code, ok := productCodes[txn.ProductType]; ok {
		productCode = code
	}

	processType := txn.ProcessType
	if processType == "" {
		processType = defaultProcessType
	}

	eventCode, ok := eventCodes[processType]
	if !ok {
		eventCode = defaultEventCode
	}

	trigger := classifyTrigger(txn.InitiatingChannel, txn.BusinessApplication)

	tmpl := t.resolver.Resolve(ctx, productCode, eventCode, trigger)
	if tmpl == nil {
		return NextStageUnknown
	}

	stages, err := t.resolver.StagesOf(ctx, tmpl.ID)
	if err != nil {
		t.logger.WarnContext(ctx, "Stage read failed, degrading to Unknown",
			"template_id", tmpl.ID, "error", err)

		return NextStageUnknown
	}

	if len(stages) == 0 {
		return NextStageUnknown
	}

	completed := completedStageName(status)
	if completed == "" {
		return stages[0].Name
	}

	for i, stage := range stages {
		if strings.EqualFold(stage.Name, completed) {
			if i < len(stages)-1 {
				return stages[i+1].Name
			}

			return lastStageFallback
		}
	}

	return stages[0].Name
}

// classifyTrigger derives the trigger type from the initiating channel. Bank
// back-office applications initiate Manual flows; everything else is treated
// as the client portal.
func classifyTrigger(channel, businessApplication string) models.TriggerType {
	app := strings.ToLower(businessApplication)

	classified := channel
	if strings.Contains(app, "orchestrator") || strings.Contains(app, "tscf bank") {
		classified = "Bank"
	} else if classified == "" {
		classified = "Portal"
	}

	if classified == "Bank" {
		return models.TriggerManual
	}

	return models.TriggerClientPortal
}

// completedStageName derives which stage the status says was just finished.
// An empty result means the transaction has not completed any stage yet.
func completedStageName(status string) string {
	if strings.EqualFold(status, "sent to bank") {
		return "Authorization"
	}

	if strings.HasSuffix(status, completedSuffix) {
		return strings.TrimSpace(strings.TrimSuffix(status, completedSuffix))
	}

	if stage, ok := legacyCompletedStages[strings.ToLower(status)]; ok {
		return stage
	}

	return ""
}
