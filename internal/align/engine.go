package align

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jjazzboss/colorbindiff/internal/hexstream"
)

// Differ is the built-in engine. It runs a character-level diff over the
// token sequences (one rune per byte value) and folds adjacent delete and
// insert runs into element-wise Modified records, so a substituted byte
// surfaces as a single Modified position rather than a delete/insert pair.
type Differ struct{}

func (Differ) Align(old, new []hexstream.Token) ([]Record, error) {
	oldRunes, err := tokensToRunes(old)
	if err != nil {
		return nil, fmt.Errorf("old stream: %w", err)
	}
	newRunes, err := tokensToRunes(new)
	if err != nil {
		return nil, fmt.Errorf("new stream: %w", err)
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // run to completion, output must be deterministic
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	recs := make([]Record, 0, len(oldRunes)+len(newRunes))
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for _, r := range d.Text {
				tok := tokenOf(r)
				recs = append(recs, Record{Kind: Unchanged, Old: tok, New: tok})
			}
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				recs = appendPaired(recs, d.Text, diffs[i+1].Text)
				i++
				continue
			}
			for _, r := range d.Text {
				recs = append(recs, Record{Kind: Deleted, Old: tokenOf(r)})
			}
		case diffmatchpatch.DiffInsert:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffDelete {
				recs = appendPaired(recs, diffs[i+1].Text, d.Text)
				i++
				continue
			}
			for _, r := range d.Text {
				recs = append(recs, Record{Kind: Added, New: tokenOf(r)})
			}
		}
	}
	return recs, nil
}

// appendPaired zips a delete run against an insert run: the overlap becomes
// Modified records, the longer run's tail stays Deleted or Added.
func appendPaired(recs []Record, deleted, inserted string) []Record {
	oldRunes := []rune(deleted)
	newRunes := []rune(inserted)
	n := len(oldRunes)
	if len(newRunes) < n {
		n = len(newRunes)
	}
	for i := 0; i < n; i++ {
		recs = append(recs, Record{
			Kind: Modified,
			Old:  tokenOf(oldRunes[i]),
			New:  tokenOf(newRunes[i]),
		})
	}
	for _, r := range oldRunes[n:] {
		recs = append(recs, Record{Kind: Deleted, Old: tokenOf(r)})
	}
	for _, r := range newRunes[n:] {
		recs = append(recs, Record{Kind: Added, New: tokenOf(r)})
	}
	return recs
}

// tokensToRunes maps each token to the rune of its byte value, the form
// the diff core compares. Byte values 0x00-0xFF are all distinct runes.
func tokensToRunes(toks []hexstream.Token) ([]rune, error) {
	runes := make([]rune, len(toks))
	for i, tok := range toks {
		b, err := hexstream.DecodeToken(tok)
		if err != nil {
			return nil, err
		}
		runes[i] = rune(b)
	}
	return runes, nil
}

func tokenOf(r rune) hexstream.Token {
	return hexstream.Encode([]byte{byte(r)})[0]
}
