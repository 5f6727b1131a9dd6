package domain

// RankingEntry is one student's leaderboard line. Rank comes from position, not from a field.
type RankingEntry struct {
	Email         string `json:"email"`
	Points        int    `json:"points"`
	ActivityCount int    `json:"activity_count"`
}

var medals = map[int]string{
	1: "🥇",
	2: "🥈",
	3: "🥉",
}

// Medal returns the medal for a 1-based rank, or "" below the podium
func Medal(rank int) string {
	return medals[rank]
}

// IsTopRank reports whether rank is on the podium
func IsTopRank(rank int) bool {
	return rank >= 1 && rank <= 3
}
