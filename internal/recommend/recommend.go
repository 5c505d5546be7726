// Package recommend derives "you may also like" suggestions for one song
// from the locally cached catalog.
package recommend

import "songfinder/internal/catalog"

const (
	// MaxSameInterpreter caps suggestions by the focal song's performer.
	MaxSameInterpreter = 3
	// MaxSameGenre caps suggestions sharing the focal song's genre.
	MaxSameGenre = 2
)

// For returns up to MaxSameInterpreter songs by the same performer followed by
// up to MaxSameGenre songs of the same genre by other performers, both in
// corpus order. The focal song and inactive songs are never included. A song
// with neither performer nor genre gets no suggestions.
//
// The genre step skips every song by the focal performer, not only the ones
// picked by the performer step, so a performer with more than
// MaxSameInterpreter songs never fills genre slots.
func For(focal catalog.Song, corpus []catalog.Song) []catalog.Song {
	genre := focal.GenreValue()
	if focal.Interpreter == "" && genre == "" {
		return nil
	}

	var out []catalog.Song

	if focal.Interpreter != "" {
		for _, song := range corpus {
			if len(out) == MaxSameInterpreter {
				break
			}
			if !eligible(focal, song) || song.Interpreter != focal.Interpreter {
				continue
			}
			out = append(out, song)
		}
	}

	if genre != "" {
		added := 0
		for _, song := range corpus {
			if added == MaxSameGenre {
				break
			}
			if !eligible(focal, song) || song.GenreValue() != genre {
				continue
			}
			// Performer matches belong to the first bucket even past its cap.
			if focal.Interpreter != "" && song.Interpreter == focal.Interpreter {
				continue
			}
			out = append(out, song)
			added++
		}
	}

	return out
}

func eligible(focal, song catalog.Song) bool {
	return song.Active && song.Code != focal.Code
}
