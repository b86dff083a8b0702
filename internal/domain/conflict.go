package domain

// ConflictReason закрытое перечисление причин отказа в бронировании
// Причины различимы для вызывающей стороны и никогда не схлопываются в общую ошибку
type ConflictReason string

const (
	ConflictOutsideAvailability   ConflictReason = "outside_availability"
	ConflictBlackout              ConflictReason = "blackout_conflict"
	ConflictSlotTaken             ConflictReason = "slot_taken"
	ConflictDuplicateRequest      ConflictReason = "duplicate_request"
	ConflictTooSoon               ConflictReason = "too_soon"
	ConflictNoInstructorAvailable ConflictReason = "no_instructor_available"
	ConflictNoVehicleAvailable    ConflictReason = "no_vehicle_available"
	ConflictSessionFull           ConflictReason = "session_full"
)
