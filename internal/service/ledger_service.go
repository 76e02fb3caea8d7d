package service

import (
	"errors"
	"strings"

	"go-dairy-ops/internal/apperr"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefundedSuffix marks an original entry that has a refund posted against
// it. The annotation is additive; the entry itself is never rewritten.
const RefundedSuffix = " [REFUNDED]"

type CreateLedgerEntryRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"mode"`
	Reference   string          `json:"reference"`
	ReceiptURL  string          `json:"receipt_url"`
	Note        string          `json:"note"`
	Cleared     bool            `json:"cleared"`
}

type RefundRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	ReceiptURL string           `json:"receipt_url"`
	CreatedBy  string           `json:"created_by"`
}

type LedgerService interface {
	CreateEntry(req *CreateLedgerEntryRequest, creatorID string) (*model.LedgerEntry, error)
	RefundEntry(id uuid.UUID, req *RefundRequest) (*model.LedgerEntry, error)
	GetEntries(account string, cleared *bool) ([]model.LedgerEntry, error)
	GetEntry(id uuid.UUID) (*model.LedgerEntry, error)
}

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	auditRepo  repository.AuditRepository
	tx         repository.TxRunner
	logger     *zap.Logger

	// allowMultipleRefunds is a policy switch: whether one entry may carry
	// more than one refund. Off means a second refund attempt fails.
	allowMultipleRefunds bool
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, auditRepo repository.AuditRepository, tx repository.TxRunner, logger *zap.Logger, allowMultipleRefunds bool) LedgerService {
	return &ledgerService{
		ledgerRepo:           ledgerRepo,
		auditRepo:            auditRepo,
		tx:                   tx,
		logger:               logger,
		allowMultipleRefunds: allowMultipleRefunds,
	}
}

func (s *ledgerService) CreateEntry(req *CreateLedgerEntryRequest, creatorID string) (*model.LedgerEntry, error) {
	// 1. Validate input
	if req.FromAccount == "" {
		return nil, apperr.NewValidation("from_account", "from account is required")
	}
	if req.ToAccount == "" {
		return nil, apperr.NewValidation("to_account", "to account is required")
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, apperr.NewValidation("amount", "amount must be greater than zero")
	}
	if req.Mode == "" {
		return nil, apperr.NewValidation("mode", "payment mode is required")
	}

	entry := &model.LedgerEntry{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      req.Amount,
		Mode:        req.Mode,
		Cleared:     req.Cleared,
		Reference:   req.Reference,
		ReceiptURL:  req.ReceiptURL,
		Note:        req.Note,
	}
	entry.CreatedBy = creatorID
	entry.UpdatedBy = creatorID

	if err := s.ledgerRepo.Create(entry); err != nil {
		return nil, apperr.NewStore("ledger entry create", err)
	}

	return entry, nil
}

// RefundEntry posts a reversal of an existing entry. The refund is a new
// entry with the accounts swapped; the original is annotated with the
// refunded suffix so both sides of the audit trail persist. Lookup,
// refund insert, and annotation are one transaction with the original
// row locked.
func (s *ledgerService) RefundEntry(id uuid.UUID, req *RefundRequest) (*model.LedgerEntry, error) {
	var refund *model.LedgerEntry

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		// 1. Find and lock the original
		original, err := s.ledgerRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("ledger entry", id.String())
			}
			return apperr.NewStore("ledger refund lookup", err)
		}

		// 2. Refund policy check
		alreadyRefunded := strings.Contains(original.Reference, strings.TrimSpace(RefundedSuffix))
		if alreadyRefunded && !s.allowMultipleRefunds {
			return apperr.NewInvalidState("ledger entry is already refunded")
		}

		// 3. Refund amount defaults to the original amount and may never
		// exceed it
		amount := original.Amount
		if req.Amount != nil {
			amount = *req.Amount
		}
		if !amount.GreaterThan(decimal.Zero) {
			return apperr.NewValidation("amount", "refund amount must be greater than zero")
		}
		if amount.GreaterThan(original.Amount) {
			return apperr.NewValidation("amount", "refund amount "+amount.String()+
				" exceeds original amount "+original.Amount.String())
		}

		// 4. Build the reversed entry
		reference := original.Reference
		if reference == "" {
			reference = original.ID.String()
		}
		reference = strings.TrimSuffix(reference, strings.TrimSpace(RefundedSuffix))
		reference = strings.TrimSpace(reference)

		refund = &model.LedgerEntry{
			FromAccount: original.ToAccount,
			ToAccount:   original.FromAccount,
			Amount:      amount,
			Mode:        original.Mode,
			Cleared:     true,
			Reference:   "REFUND-" + reference,
			ReceiptURL:  req.ReceiptURL,
		}
		refund.CreatedBy = req.CreatedBy
		refund.UpdatedBy = req.CreatedBy

		if err := s.ledgerRepo.CreateTx(tx, refund); err != nil {
			return apperr.NewStore("ledger refund create", err)
		}

		// 5. Annotate the original (only once, even under the
		// allow-multiple policy)
		if !alreadyRefunded {
			if err := s.ledgerRepo.UpdateReference(tx, original.ID, original.Reference+RefundedSuffix); err != nil {
				return apperr.NewStore("ledger refund annotation", err)
			}
		}

		// 6. Audit row ties the refund to its original
		audit := &model.AuditLog{
			ActionType: model.ActionLedgerRefund,
			EntityType: "ledger_entry",
			EntityID:   original.ID.String(),
			ActorID:    req.CreatedBy,
			Meta: model.JSONB{
				"refund_id": refund.ID.String(),
				"amount":    amount.String(),
			},
		}
		if err := s.auditRepo.Create(tx, audit); err != nil {
			return apperr.NewStore("ledger refund audit", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry refunded",
		zap.String("original_id", id.String()),
		zap.String("refund_id", refund.ID.String()),
		zap.String("amount", refund.Amount.String()),
	)

	return refund, nil
}

func (s *ledgerService) GetEntries(account string, cleared *bool) ([]model.LedgerEntry, error) {
	entries, err := s.ledgerRepo.FindAll(account, cleared)
	if err != nil {
		return nil, apperr.NewStore("ledger list", err)
	}
	return entries, nil
}

func (s *ledgerService) GetEntry(id uuid.UUID) (*model.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("ledger entry", id.String())
		}
		return nil, apperr.NewStore("ledger lookup", err)
	}
	return entry, nil
}
