package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hotelbook/models"
	"hotelbook/services/api"
	"hotelbook/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MissingFieldsMessage   = "Please select fields"
	UnknownRoomTypeMessage = "Please select a valid room type"
	NotAvailableMessage    = "Room type not currently available for the selected date"
)

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// ErrNotAvailable reports a successful search that found no rooms.
var ErrNotAvailable = errors.New(NotAvailableMessage)

// RoomCatalog is the part of the booking service a search needs.
type RoomCatalog interface {
	RoomTypes(ctx context.Context) ([]string, error)
	AvailableRooms(ctx context.Context, checkIn, checkOut, roomType string) ([]models.Room, error)
}

// Criteria is one availability query. Zero dates count as unset.
type Criteria struct {
	CheckIn  time.Time
	CheckOut time.Time
	RoomType string
}

// ResultHandler receives the rooms of a search that found any.
type ResultHandler func(rooms []models.Room)

// query is Criteria after normalization.
type query struct {
	CheckIn  string `validate:"required,datetime=2006-01-02"`
	CheckOut string `validate:"required,datetime=2006-01-02"`
	RoomType string `validate:"required,roomtype"`
}

// Search is one availability search surface. The room type vocabulary is
// fetched on first use and kept for the life of the surface.
type Search struct {
	catalog  RoomCatalog
	onResult ResultHandler
	notice   *Notice
	logger   *zap.Logger
	validate *validator.Validate

	typesOnce sync.Once
	types     []string
}

func New(catalog RoomCatalog, onResult ResultHandler, notice *Notice, logger *zap.Logger) *Search {
	if notice == nil {
		notice = NewNotice(DefaultNoticeDelay)
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	s := &Search{catalog: catalog, onResult: onResult, notice: notice, logger: logger}
	s.validate = validator.New()
	if err := s.validate.RegisterValidation("roomtype", s.knownRoomType); err != nil {
		panic(err)
	}
	return s
}

// RoomTypes returns the vocabulary. A failed fetch is logged and leaves it
// empty for the life of the surface.
func (s *Search) RoomTypes(ctx context.Context) []string {
	s.typesOnce.Do(func() {
		types, err := s.catalog.RoomTypes(ctx)
		if err != nil {
			s.logger.Warn("Error fetching room types", zap.Error(err))
			return
		}
		s.types = types
	})
	return append([]string(nil), s.types...)
}

// Notice returns the surface's transient message.
func (s *Search) Notice() *Notice {
	return s.notice
}

// knownRoomType accepts any type while the vocabulary is empty.
func (s *Search) knownRoomType(fl validator.FieldLevel) bool {
	if len(s.types) == 0 {
		return true
	}
	value := fl.Field().String()
	for _, t := range s.types {
		if t == value {
			return true
		}
	}
	return false
}

// Run validates c, queries availability and hands any rooms found to the
// result handler. Every failure is also shown on the notice.
func (s *Search) Run(ctx context.Context, c Criteria) error {
	s.RoomTypes(ctx)

	q := query{
		CheckIn:  FormatDate(c.CheckIn),
		CheckOut: FormatDate(c.CheckOut),
		RoomType: c.RoomType,
	}
	if err := s.validate.Struct(q); err != nil {
		message := MissingFieldsMessage
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) == 1 && fieldErrs[0].Tag() == "roomtype" {
			message = UnknownRoomTypeMessage
		}
		s.notice.Show(message)
		return &utils.ValidationError{Message: message, Err: err}
	}

	rooms, err := s.catalog.AvailableRooms(ctx, q.CheckIn, q.CheckOut, q.RoomType)
	if err != nil {
		s.notice.Show(api.ErrorMessage(err))
		return fmt.Errorf("availability search: %w", err)
	}
	if len(rooms) == 0 {
		s.notice.Show(NotAvailableMessage)
		return ErrNotAvailable
	}

	s.notice.Clear()
	if s.onResult != nil {
		s.onResult(rooms)
	}
	return nil
}

// FormatDate renders t as YYYY-MM-DD in its own location. A zero time is "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD date in the local time zone. "" is the zero
// time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(DateLayout, s, time.Local)
}
