package engine

// lineScores is the fixed reward for clearing 1 to 4 rows at once.
var lineScores = map[int]int{
	1: 100,
	2: 300,
	3: 500,
	4: 800,
}

// ScoreForRows returns the points awarded for clearing rows at once.
// Counts outside the table earn rows*100; zero rows earn nothing.
func ScoreForRows(rows int) int {
	if rows <= 0 {
		return 0
	}
	if pts, ok := lineScores[rows]; ok {
		return pts
	}
	return rows * 100
}

// Scoring accumulates score and cleared-line totals for one session.
type Scoring struct {
	score int
	lines int
}

// Apply adds the reward for a single lock that cleared rows.
func (s *Scoring) Apply(rows int) int {
	pts := ScoreForRows(rows)
	s.score += pts
	if rows > 0 {
		s.lines += rows
	}
	return pts
}

// Score returns the accumulated score.
func (s *Scoring) Score() int {
	return s.score
}

// Lines returns the total number of rows cleared.
func (s *Scoring) Lines() int {
	return s.lines
}

// Reset zeroes the accumulator.
func (s *Scoring) Reset() {
	*s = Scoring{}
}
