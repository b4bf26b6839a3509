package metrics

// BookingMetrics provides observability for reservation engine operations.
//
// This interface is optional - pass nil to disable metrics collection with
// zero overhead.
type BookingMetrics interface {
	// RecordBook records a completed booking call.
	//
	// Parameters:
	//   - movie: movie name
	//   - theatre: theatre name
	//   - requested: number of seats in the request
	//   - granted: number of seats newly acquired by the call
	//   - bestEffort: whether the call ran in best-effort mode
	//   - outcome: "ok", "partial", "conflict" or "out_of_range"
	RecordBook(movie, theatre string, requested, granted int, bestEffort bool, outcome string)

	// RecordUnbook records a completed release call.
	//
	// Parameters:
	//   - movie: movie name
	//   - theatre: theatre name
	//   - released: number of seats returned to the free pool
	//   - invalid: number of seats the booker did not own
	RecordUnbook(movie, theatre string, released, invalid int)

	// SetSeatsBooked updates the gauge of currently allocated seats for a
	// theatre.
	SetSeatsBooked(movie, theatre string, count int)

	// SetActiveBookers updates the gauge of bookers joined to the engine.
	SetActiveBookers(count int)
}
