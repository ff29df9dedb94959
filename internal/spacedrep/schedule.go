package spacedrep

// DefaultEaseFactor is the ease factor of a card that has never been reviewed.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor the ease factor never drops below.
const MinEaseFactor = 1.3

// FirstInterval is the interval in days after the first success of a streak.
const FirstInterval = 1

// SecondInterval is the interval in days after the second consecutive success.
// Later intervals grow geometrically by the ease factor.
const SecondInterval = 6
