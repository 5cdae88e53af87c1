package submissions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JeffiBR/backend-curriculos/internal/shared/metrics"
	"github.com/JeffiBR/backend-curriculos/internal/shared/storage/object"
	"github.com/JeffiBR/backend-curriculos/internal/shared/telemetry"
)

// Service runs the submission pipeline against the blob and record stores.
//
// There is no transaction spanning the two stores, so the pipeline orders
// writes to keep the compensation surface minimal: the blob (deletable,
// idempotent) goes first and the record (which carries the uniqueness
// guarantee and the visible identifier) goes last. A failed attempt never
// leaves a queryable record without a backing file.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	MaxUploadBytes int64
	StoreTimeout   time.Duration
	Now            func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.StoreTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// Submit runs one submission attempt: validate, duplicate pre-check, blob
// upload, record insert. Each step is terminal on failure; nothing is
// retried. Returns the committed submission, a *ValidationError, a
// *DuplicateError, or an infrastructure error.
func (s *Service) Submit(ctx context.Context, in Input, file *FileUpload, remoteAddr string) (Submission, error) {
	metrics.IncSubmissionReceived()
	started := time.Now()
	defer func() {
		metrics.ObserveSubmissionDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	}()

	// Step 1: validate. No side effects have happened yet.
	if violations := Validate(in, file, s.MaxUploadBytes); len(violations) > 0 {
		metrics.IncSubmissionRejectedValidation()
		return Submission{}, &ValidationError{Violations: violations}
	}
	norm := Normalize(in)

	// Step 2: advisory duplicate pre-check. The store constraint remains
	// the source of truth; this read only buys a friendly 409 with the
	// prior submission's timestamp.
	existing, err := s.Repo.FindByCPFAndVaga(ctx, norm.CPF, norm.Vaga)
	switch {
	case err == nil:
		metrics.IncSubmissionRejectedDuplicate()
		return Submission{}, &DuplicateError{DataEnvio: existing.DataEnvio}
	case !errors.Is(err, ErrNotFound):
		metrics.IncSubmissionFailed()
		return Submission{}, fmt.Errorf("duplicate pre-check: %w", err)
	}

	// Step 3: upload the blob. On failure nothing needs undoing.
	dataEnvio := s.now()
	storageKey := storageKeyFor(norm.CPF, file.Name, dataEnvio)

	putCtx, cancelPut := s.storeCtx(ctx)
	_, err = s.Store.Put(putCtx, storageKey, file.ContentType, bytes.NewReader(file.Data))
	cancelPut()
	if err != nil {
		metrics.IncSubmissionFailed()
		return Submission{}, fmt.Errorf("upload blob %s: %w", storageKey, err)
	}

	// Step 4: insert the record. On failure, compensate by deleting the
	// blob uploaded in step 3.
	sub := Submission{
		ID:               uuid.NewString(),
		Nome:             norm.Nome,
		Telefone:         norm.Telefone,
		CPF:              norm.CPF,
		CEP:              norm.CEP,
		Estado:           norm.Estado,
		Cidade:           norm.Cidade,
		Bairro:           norm.Bairro,
		Rua:              norm.Rua,
		Numero:           norm.Numero,
		Vaga:             norm.Vaga,
		ArquivoCurriculo: storageKey,
		DataEnvio:        dataEnvio,
		IPAddress:        remoteAddr,
	}

	insertCtx, cancelInsert := s.storeCtx(ctx)
	err = s.Repo.Create(insertCtx, sub)
	cancelInsert()
	if err != nil {
		s.compensate(storageKey)
		if errors.Is(err, ErrDuplicate) {
			// The pre-check raced a concurrent insert for the same pair.
			// Resolve to the duplicate outcome, with the winner's timestamp
			// when it can still be read.
			metrics.IncSubmissionRejectedDuplicate()
			dup := &DuplicateError{}
			if winner, findErr := s.Repo.FindByCPFAndVaga(ctx, norm.CPF, norm.Vaga); findErr == nil {
				dup.DataEnvio = winner.DataEnvio
			}
			return Submission{}, dup
		}
		metrics.IncSubmissionFailed()
		return Submission{}, fmt.Errorf("insert record: %w", err)
	}

	metrics.IncSubmissionCommitted()
	telemetry.Info("submission.committed", map[string]any{
		"submission_id": sub.ID,
		"vaga":          sub.Vaga,
		"storage_key":   storageKey,
	})

	// Best-effort: mine the résumé text for an experience summary. Runs
	// after commit and never affects the outcome.
	s.extractExperience(ctx, sub, file)

	return sub, nil
}

// compensate deletes a blob left behind by a failed insert. Its own failure
// is an operator-visible inconsistency (an orphaned blob) but must not mask
// the insert error already determined for the caller.
func (s *Service) compensate(storageKey string) {
	delCtx, cancel := s.storeCtx(context.Background())
	defer cancel()
	if err := s.Store.Delete(delCtx, storageKey); err != nil {
		metrics.IncCompensationFailure()
		telemetry.Error("submission.compensation_failed", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

// Get returns one submission by identifier.
func (s *Service) Get(ctx context.Context, id string) (Submission, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns the filtered submission page and the total matching count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Submission, int, error) {
	return s.Repo.List(ctx, filter)
}

// Delete removes a submission's blob and record together. The blob goes
// first (deletable again on retry); if exactly one side fails the result is
// a *PartialDeleteError naming what remains, never a silent success.
func (s *Service) Delete(ctx context.Context, id string) error {
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	delCtx, cancelDel := s.storeCtx(ctx)
	blobErr := s.Store.Delete(delCtx, sub.ArquivoCurriculo)
	cancelDel()
	if blobErr != nil {
		return &PartialDeleteError{FileRemoved: false, RecordRemoved: false, Cause: blobErr}
	}

	recCtx, cancelRec := s.storeCtx(ctx)
	recErr := s.Repo.Delete(recCtx, id)
	cancelRec()
	if recErr != nil && !errors.Is(recErr, ErrNotFound) {
		telemetry.Error("submission.delete_partial", map[string]any{
			"submission_id": id,
			"storage_key":   sub.ArquivoCurriculo,
			"error":         recErr.Error(),
		})
		return &PartialDeleteError{FileRemoved: true, RecordRemoved: false, Cause: recErr}
	}
	return nil
}
