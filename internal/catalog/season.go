package catalog

import "fmt"

// Normalize restores the derived fields: episode numbers follow list
// position and EpisodeCount matches the episode list.
func (s *Season) Normalize() {
	if s.Episodes == nil {
		s.Episodes = []Episode{}
	}
	for i := range s.Episodes {
		s.Episodes[i].EpisodeNumber = i + 1
	}
	s.EpisodeCount = len(s.Episodes)
}

// InsertEpisode inserts e at position i (0 <= i <= len). Use len to append.
func (s *Season) InsertEpisode(i int, e Episode) error {
	if i < 0 || i > len(s.Episodes) {
		return fmt.Errorf("insert episode at %d: %w", i, ErrIndexOutOfRange)
	}
	s.Episodes = append(s.Episodes, Episode{})
	copy(s.Episodes[i+1:], s.Episodes[i:])
	s.Episodes[i] = e
	s.Normalize()
	return nil
}

// RemoveEpisode deletes the episode at position i.
func (s *Season) RemoveEpisode(i int) error {
	if i < 0 || i >= len(s.Episodes) {
		return fmt.Errorf("remove episode %d: %w", i, ErrIndexOutOfRange)
	}
	s.Episodes = append(s.Episodes[:i], s.Episodes[i+1:]...)
	s.Normalize()
	return nil
}

// MoveEpisode moves the episode at from so that it ends up at position to.
func (s *Season) MoveEpisode(from, to int) error {
	if from < 0 || from >= len(s.Episodes) || to < 0 || to >= len(s.Episodes) {
		return fmt.Errorf("move episode %d to %d: %w", from, to, ErrIndexOutOfRange)
	}
	s.Episodes = move(s.Episodes, from, to)
	s.Normalize()
	return nil
}

// SeasonIndex returns the position of the season with the given number, or -1.
func (s *Series) SeasonIndex(number int) int {
	for i, season := range s.Seasons {
		if season.SeasonNumber == number {
			return i
		}
	}
	return -1
}

// NextSeasonNumber suggests a number for the next imported season.
func (s *Series) NextSeasonNumber() int {
	return len(s.Seasons) + 1
}

// Season returns a pointer to the season at position i.
func (s *Series) Season(i int) (*Season, error) {
	if i < 0 || i >= len(s.Seasons) {
		return nil, fmt.Errorf("season %d: %w", i, ErrIndexOutOfRange)
	}
	return &s.Seasons[i], nil
}

// RemoveSeason deletes the season at position i.
func (s *Series) RemoveSeason(i int) error {
	if i < 0 || i >= len(s.Seasons) {
		return fmt.Errorf("remove season %d: %w", i, ErrIndexOutOfRange)
	}
	s.Seasons = append(s.Seasons[:i], s.Seasons[i+1:]...)
	return nil
}

// MoveSeason reorders seasons. Season numbers are left untouched.
func (s *Series) MoveSeason(from, to int) error {
	if from < 0 || from >= len(s.Seasons) || to < 0 || to >= len(s.Seasons) {
		return fmt.Errorf("move season %d to %d: %w", from, to, ErrIndexOutOfRange)
	}
	s.Seasons = move(s.Seasons, from, to)
	return nil
}

// Normalize restores derived fields on every season.
func (s *Series) Normalize() {
	if s.Seasons == nil {
		s.Seasons = []Season{}
	}
	for i := range s.Seasons {
		s.Seasons[i].Normalize()
	}
	s.NormalizeTags()
}

func move[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}
