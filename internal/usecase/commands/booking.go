package commands

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"tableplan/internal/domain/availability"
	"tableplan/internal/domain/reservation"
	"tableplan/internal/domain/table"
	reqdto "tableplan/internal/handler/dto/request"
	"tableplan/internal/infra"
	"tableplan/internal/infra/db"
	"tableplan/internal/pkg/clock"
	"tableplan/internal/pkg/config"
	"tableplan/internal/pkg/errs"
	"tableplan/internal/usecase/queries"
	"tableplan/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound           = errs.New("table not found")
	ErrTableNotActive          = errs.New("table is not active")
	ErrInvalidTimeSlot         = errs.New("invalid time slot")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrNoActiveTables          = errs.New("restaurant has no active tables")
	ErrNoTablesAvailable       = errs.New("no tables available for the requested slot")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrCapacityTooSmall        = errs.New("party exceeds table capacity")
	ErrBelowCombinedMinimum    = errs.New("party below combined table minimum")
	ErrSharedSeatsUnavailable  = errs.New("not enough seats at shared table")
	ErrExceedsPerBookingMax    = errs.New("party exceeds shared table per-booking maximum")
	ErrDuplicateBooking        = errs.New("duplicate booking request")
	ErrIdempotencyKeyRequired  = errs.New("idempotency key required")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrCodeGenerationExhausted = errs.New("confirmation code generation exhausted")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidStatusTransition = errs.New("invalid booking status transition")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// MinimumCapacityError carries the per-table minimum violations so the caller
// can present an override prompt. Marked with ErrBelowCombinedMinimum.
type MinimumCapacityError struct {
	Result availability.CapacityResult
}

func (e *MinimumCapacityError) Error() string {
	return fmt.Sprintf("party below combined minimum by %d", e.Result.Shortfall)
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, restaurantID uuid.UUID, req reqdto.CreateBookingRequest, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	UpdateBookingStatus(ctx context.Context, restaurantID, bookingID uuid.UUID, next reservation.Status) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	bookingRepo      BookingRepository
	tableReads       TableReads
	reservationReads ReservationReads
	idempotencyRepo  IdempotencyRepository
	notificationRepo NotificationRepository
	bookingQueries   queries.BookingQueries
	engine           *availability.QueryService
	tx               shared.TxRunner
	clock            clock.Clock
	policy           config.BookingConfig
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	tableReads TableReads,
	reservationReads ReservationReads,
	idempotencyRepo IdempotencyRepository,
	notificationRepo NotificationRepository,
	bookingQueries queries.BookingQueries,
	engine *availability.QueryService,
	tx shared.TxRunner,
	clock clock.Clock,
	policy config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo:      bookingRepo,
		tableReads:       tableReads,
		reservationReads: reservationReads,
		idempotencyRepo:  idempotencyRepo,
		notificationRepo: notificationRepo,
		bookingQueries:   bookingQueries,
		engine:           engine,
		tx:               tx,
		clock:            clock,
		policy:           policy,
	}
}

func (b *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	requestHash := b.calculateRequestHash(req)
	expiresAt := b.clock.Now().Add(time.Duration(b.policy.IdempotencyKeyTTLHr) * time.Hour)

	replayed, err := b.handleIdempotency(ctx, idempotencyKey, restaurantID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	bookingView, err := b.createNewBooking(ctx, restaurantID, req, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &CreateBookingResult{Booking: bookingView, IsReplayed: false}, nil
}

// UpdateBookingStatus applies a lifecycle transition. Terminal statuses
// release the table hold, reopening the slot for new bookings.
func (b *bookingUseCaseImpl) UpdateBookingStatus(
	ctx context.Context,
	restaurantID, bookingID uuid.UUID,
	next reservation.Status,
) (*queries.BookingView, error) {
	view, err := b.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if view.RestaurantID != restaurantID {
		return nil, ErrBookingNotFound
	}

	entity, err := b.entityFromView(view)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := entity.TransitionTo(next); err != nil {
		return nil, errs.Mark(err, ErrInvalidStatusTransition)
	}

	err = b.tx.RunInTx(ctx, func(tx db.DBTX) error {
		if err := b.bookingRepo.UpdateStatus(ctx, tx, bookingID, next); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := b.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return updated, nil
}

func (b *bookingUseCaseImpl) entityFromView(view *queries.BookingView) (*reservation.Reservation, error) {
	window, err := reservation.NewWindow(view.StartTime, view.EndTime)
	if err != nil {
		return nil, err
	}
	note := ""
	if view.Note != nil {
		note = *view.Note
	}
	return reservation.ReconstructReservation(
		view.ID, view.RestaurantID, view.TableIDs, view.GuestName,
		view.PartySize, window, reservation.Status(view.Status),
		view.ConfirmationCode, note, view.CreatedAt, view.UpdatedAt,
	), nil
}

func (b *bookingUseCaseImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, restaurantID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.BookingView, error) {
	inserted, err := b.idempotencyRepo.TryInsert(ctx, idempotencyKey, restaurantID, "POST /bookings", requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := b.idempotencyRepo.Get(ctx, idempotencyKey, restaurantID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultBookingID != nil {
			return b.bookingQueries.GetByID(ctx, *existing.ResultBookingID)
		}
		return nil, errs.New("completed request missing result booking ID")

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateBooking
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (b *bookingUseCaseImpl) createNewBooking(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	window, err := req.Window(b.policy.DefaultTurnTimeMin)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	tables, err := b.resolveTables(ctx, restaurantID, req, window)
	if err != nil {
		return nil, err
	}

	if len(tables) == 1 && tables[0].IsShared() {
		return b.createSharedBooking(ctx, restaurantID, req, window, tables[0], idempotencyKey)
	}
	for _, t := range tables {
		if t.IsShared() {
			return nil, errs.Mark(reservation.ErrSharedMultiTable, ErrDomainValidation)
		}
	}

	return b.createRegularBooking(ctx, restaurantID, req, window, tables, idempotencyKey)
}

// resolveTables loads the explicitly requested tables, or asks the engine for
// the optimal assignment when the request names none.
func (b *bookingUseCaseImpl) resolveTables(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	window reservation.Window,
) ([]*table.Table, error) {
	if len(req.TableIDs) > 0 {
		tables, err := b.tableReads.FindByIDs(ctx, restaurantID, req.TableIDs)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(tables) != len(req.TableIDs) {
			return nil, ErrTableNotFound
		}
		for _, t := range tables {
			if !t.IsActive() {
				return nil, ErrTableNotActive
			}
		}
		return tables, nil
	}

	pool, err := b.tableReads.FindActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(pool) == 0 {
		return nil, ErrNoActiveTables
	}

	snapshot, err := b.reservationReads.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	options, err := b.engine.GetOptionsForSlot(pool, window, req.PartySize, snapshot)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if options.Optimal == nil {
		return nil, ErrNoTablesAvailable
	}

	byID := make(map[uuid.UUID]*table.Table, len(pool))
	for _, t := range pool {
		byID[t.ID()] = t
	}
	assigned := make([]*table.Table, 0, len(options.Optimal.TableIDs))
	for _, id := range options.Optimal.TableIDs {
		assigned = append(assigned, byID[id])
	}
	return assigned, nil
}

func (b *bookingUseCaseImpl) createRegularBooking(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	window reservation.Window,
	tables []*table.Table,
	idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	capacity := availability.ValidateCapacity(tables, req.PartySize)
	if !capacity.Valid {
		switch capacity.Reason {
		case availability.CapacityTooSmall:
			return nil, ErrCapacityTooSmall
		case availability.BelowCombinedMinimum:
			if !req.AllowBelowMinimum {
				return nil, errs.Mark(&MinimumCapacityError{Result: capacity}, ErrBelowCombinedMinimum)
			}
		}
	}

	snapshot, err := b.reservationReads.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	decision, err := b.engine.CheckAvailability(tables, window, req.PartySize, snapshot)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if !decision.Available {
		if len(decision.InactiveTableIDs) > 0 {
			return nil, ErrTableNotActive
		}
		return nil, ErrBookingConflict
	}

	entity, err := b.newEntity(ctx, restaurantID, req, window, tables)
	if err != nil {
		return nil, err
	}

	return b.executeBookingTransaction(ctx, entity, idempotencyKey, restaurantID, nil)
}

// createSharedBooking re-validates seat accounting inside a serializable
// transaction: unlike whole-table bookings, shared-table overlap is legal and
// the exclusion constraint cannot arbitrate seat counts.
func (b *bookingUseCaseImpl) createSharedBooking(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	window reservation.Window,
	sharedTable *table.Table,
	idempotencyKey uuid.UUID,
) (*queries.BookingView, error) {
	// Pre-check outside the transaction for a fast, cheap rejection.
	snapshot, err := b.reservationReads.FindOverlapping(ctx, restaurantID, window)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	result, err := b.engine.CheckSharedSeats(sharedTable, window, req.PartySize, snapshot)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if !result.Available {
		return nil, sharedSeatError(result)
	}

	entity, err := b.newEntity(ctx, restaurantID, req, window, []*table.Table{sharedTable})
	if err != nil {
		return nil, err
	}

	return b.executeBookingTransaction(ctx, entity, idempotencyKey, restaurantID, func(tx db.DBTX) error {
		inTx, err := b.reservationReads.FindOverlappingInTx(ctx, tx, sharedTable.ID(), window)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result, err := b.engine.CheckSharedSeats(sharedTable, window, req.PartySize, inTx)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if !result.Available {
			return sharedSeatError(result)
		}
		return nil
	})
}

func sharedSeatError(result availability.SeatAvailability) error {
	if result.Reason == availability.ExceedsPerBookingMax {
		return ErrExceedsPerBookingMax
	}
	return ErrSharedSeatsUnavailable
}

func (b *bookingUseCaseImpl) newEntity(
	ctx context.Context,
	restaurantID uuid.UUID,
	req reqdto.CreateBookingRequest,
	window reservation.Window,
	tables []*table.Table,
) (*reservation.Reservation, error) {
	code, err := b.generateConfirmationCode(ctx)
	if err != nil {
		return nil, err
	}

	tableIDs := make([]uuid.UUID, len(tables))
	for i, t := range tables {
		tableIDs[i] = t.ID()
	}

	note := ""
	if trimmed := req.TrimmedNote(); trimmed != nil {
		note = *trimmed
	}

	entity, err := reservation.NewReservation(
		restaurantID,
		tableIDs,
		req.GuestName,
		req.PartySize,
		window,
		reservation.StatusConfirmed,
		code,
		note,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	return entity, nil
}

func (b *bookingUseCaseImpl) executeBookingTransaction(
	ctx context.Context,
	entity *reservation.Reservation,
	idempotencyKey, restaurantID uuid.UUID,
	guard func(tx db.DBTX) error,
) (*queries.BookingView, error) {
	var bookingID uuid.UUID
	txFn := func(tx db.DBTX) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}

		id, err := b.bookingRepo.Create(ctx, tx, entity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := b.createNotificationJob(ctx, tx, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		responseHash := b.calculateIDHash(id)
		if err := b.idempotencyRepo.UpdateStatusCompleted(ctx, tx, idempotencyKey, restaurantID, responseHash, id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bookingID = id
		return nil
	}

	var err error
	if guard != nil {
		err = b.tx.RunInSerializableTx(ctx, txFn)
	} else {
		err = b.tx.RunInTx(ctx, txFn)
	}
	if err != nil {
		return nil, err
	}

	// Read-after-write: return the complete view from the read store.
	view, err := b.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (b *bookingUseCaseImpl) createNotificationJob(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       "booking_created",
	})
	if err != nil {
		return err
	}
	return b.notificationRepo.CreateJob(ctx, tx, "email", "booking_created", payload, b.clock.Now())
}

// confirmationCodeAlphabet omits characters guests confuse over the phone.
const confirmationCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const confirmationCodeLength = 6

func (b *bookingUseCaseImpl) generateConfirmationCode(ctx context.Context) (string, error) {
	attempts := b.policy.CodeGenMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", errs.Mark(err, ErrCodeGenerationExhausted)
		}

		exists, err := b.reservationReads.CodeExists(ctx, code)
		if err != nil {
			return "", errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrCodeGenerationExhausted
}

func randomCode() (string, error) {
	buf := make([]byte, confirmationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(confirmationCodeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = confirmationCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (b *bookingUseCaseImpl) calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func (b *bookingUseCaseImpl) calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
