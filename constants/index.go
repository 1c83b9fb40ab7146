package constants

// Roles carried in the JWT role claim.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Entity statuses.
const (
	MovieActive   = "active"
	MovieInactive = "inactive"

	RoomActive      = "active"
	RoomMaintenance = "maintenance"
	RoomInactive    = "inactive"

	SeatAvailable   = "available"
	SeatOccupied    = "occupied"
	SeatMaintenance = "maintenance"

	SeatTypeStandard = "standard"
	SeatTypePremium  = "premium"
	SeatTypeVip      = "vip"

	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Stable machine-readable error codes returned next to the message.
const (
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeNotFound                 = "NOT_FOUND"
	CodePastShowtime             = "PAST_SHOWTIME"
	CodeSeatUnavailable          = "SEAT_UNAVAILABLE"
	CodeSeatAlreadyBooked        = "SEAT_ALREADY_BOOKED"
	CodeDuplicateTransaction     = "DUPLICATE_TRANSACTION"
	CodeSlotConflict             = "SLOT_CONFLICT"
	CodeHasActiveBookings        = "HAS_ACTIVE_BOOKINGS"
	CodeAlreadyCancelled         = "ALREADY_CANCELLED"
	CodeImmutable                = "IMMUTABLE"
	CodeCancellationWindow       = "CANCELLATION_WINDOW_CLOSED"
	CodeInsufficientAvailability = "INSUFFICIENT_AVAILABILITY"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeForbidden                = "FORBIDDEN"
	CodeSystemError              = "SYSTEM_ERROR"
)

// Shared handler messages.
const (
	ERROR_INPUT       = "invalid input data"
	ERROR_INTERNAL    = "internal server error"
	NOT_ADMIN         = "admin permission required"
	MISSING_TOKEN     = "missing or invalid token"
	ERROR_PARSE_LOCAL = "failed to read validated input"
)

// Booking policy.
const (
	ServiceFeeRate     = 0.05
	RefundRate         = 0.80
	CancelWindowHours  = 2
	ShowtimeTimeLayout = "15:04"
)
