// README: Pure scoring functions: distance, idle time, and rating feed one total.
package dispatch

import "time"

// DistanceScore maps travel meters onto [0, 50]. Anything within 100m
// scores the full 50; beyond 4999m scores nothing; in between the score
// falls off linearly. A negative (unknown) distance scores 0.
func DistanceScore(meters int) float64 {
	switch {
	case meters < 0:
		return 0
	case meters <= 100:
		return 50
	case meters > 4999:
		return 0
	default:
		return float64(5000-meters) / 98
	}
}

// IdleScore grows without bound at 8 points per idle minute, so every
// waiting partner eventually outranks any combination of proximity and
// rating.
func IdleScore(idle time.Duration) float64 {
	if idle < 0 {
		return 0
	}
	return idle.Seconds() * 4 / 30
}

// RatingScore maps a 0-5 rating onto [0, 10]: nothing below 3 stars,
// full marks at 5, linear in between.
func RatingScore(rating float64) float64 {
	switch {
	case rating < 3:
		return 0
	case rating >= 5:
		return 10
	default:
		return 5*rating - 15
	}
}

// TotalScore is the sum of the three components.
func TotalScore(meters int, idle time.Duration, rating float64) float64 {
	return DistanceScore(meters) + IdleScore(idle) + RatingScore(rating)
}
