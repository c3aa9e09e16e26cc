// Package codec encodes the user and question collections as flat records:
// a count followed by that many fixed-size entries.
//
// Users record:
//
//	int32 count
//	count × { [50]byte username, [65]byte password hash, int32 credits, int32 is_manager, int32 score }
//
// Questions record:
//
//	int32 count, int32 answer slots (S)
//	count × { [256]byte text, [50]byte author, S×[256]byte answers, S×[50]byte answer authors,
//	          int32 answer count, S×int32 ratings }
//
// Strings are NUL-padded. All integers are little-endian.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dtroode/qaforum-server/internal/model"
)

const (
	UsernameWidth = 50
	HashWidth     = 65
	TextWidth     = 256
)

var (
	// ErrFieldTooLong is returned when a string does not fit its fixed-width slot.
	ErrFieldTooLong = errors.New("field too long")
	// ErrCorrupt is returned when a record cannot be decoded.
	ErrCorrupt = errors.New("corrupt record")
	// ErrOutOfRange is returned when an integer does not fit its int32 slot.
	ErrOutOfRange = errors.New("value out of range")
)

var order = binary.LittleEndian

type userEntry struct {
	Username  [UsernameWidth]byte
	Hash      [HashWidth]byte
	Credits   int32
	IsManager int32
	Score     int32
}

// EncodeUsers writes the users record.
func EncodeUsers(w io.Writer, users []model.User) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, order, int32(len(users))); err != nil {
		return err
	}

	for _, u := range users {
		var e userEntry
		if err := putString(e.Username[:], u.Username); err != nil {
			return fmt.Errorf("username %q: %w", u.Username, err)
		}
		if err := putString(e.Hash[:], u.PasswordHash); err != nil {
			return fmt.Errorf("password hash of %q: %w", u.Username, err)
		}
		var err error
		if e.Credits, err = toInt32(u.Credits); err != nil {
			return fmt.Errorf("credits of %q: %w", u.Username, err)
		}
		e.IsManager = boolToInt32(u.IsManager)
		if e.Score, err = toInt32(u.Score); err != nil {
			return fmt.Errorf("score of %q: %w", u.Username, err)
		}

		if err := binary.Write(&buf, order, &e); err != nil {
			return err
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// DecodeUsers reads a users record written by EncodeUsers.
func DecodeUsers(r io.Reader) ([]model.User, error) {
	var count int32
	if err := binary.Read(r, order, &count); err != nil {
		return nil, fmt.Errorf("%w: users count: %v", ErrCorrupt, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative users count %d", ErrCorrupt, count)
	}

	users := make([]model.User, 0, count)
	for i := int32(0); i < count; i++ {
		var e userEntry
		if err := binary.Read(r, order, &e); err != nil {
			return nil, fmt.Errorf("%w: user %d: %v", ErrCorrupt, i, err)
		}
		users = append(users, model.User{
			Username:     getString(e.Username[:]),
			PasswordHash: getString(e.Hash[:]),
			Credits:      int(e.Credits),
			IsManager:    e.IsManager != 0,
			Score:        int(e.Score),
		})
	}

	return users, nil
}

// EncodeQuestions writes the questions record with answerSlots answer slots per
// entry. The slot count grows to the largest answer count present, so
// collections loaded under a bigger limit stay writable.
func EncodeQuestions(w io.Writer, questions []model.Question, answerSlots int) error {
	for _, q := range questions {
		answerSlots = max(answerSlots, len(q.Answers))
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, order, [2]int32{int32(len(questions)), int32(answerSlots)}); err != nil {
		return err
	}

	text := make([]byte, TextWidth)
	author := make([]byte, UsernameWidth)
	for qi, q := range questions {
		if err := putString(text, q.Text); err != nil {
			return fmt.Errorf("question %d text: %w", qi, err)
		}
		buf.Write(text)
		if err := putString(author, q.Author); err != nil {
			return fmt.Errorf("question %d author: %w", qi, err)
		}
		buf.Write(author)

		for ai := 0; ai < answerSlots; ai++ {
			var s string
			if ai < len(q.Answers) {
				s = q.Answers[ai].Text
			}
			if err := putString(text, s); err != nil {
				return fmt.Errorf("question %d answer %d: %w", qi, ai, err)
			}
			buf.Write(text)
		}
		for ai := 0; ai < answerSlots; ai++ {
			var s string
			if ai < len(q.Answers) {
				s = q.Answers[ai].Author
			}
			if err := putString(author, s); err != nil {
				return fmt.Errorf("question %d answer %d author: %w", qi, ai, err)
			}
			buf.Write(author)
		}

		ints := make([]int32, 1+answerSlots)
		ints[0] = int32(len(q.Answers))
		for ai, a := range q.Answers {
			rating, err := toInt32(a.Rating)
			if err != nil {
				return fmt.Errorf("question %d answer %d rating: %w", qi, ai, err)
			}
			ints[1+ai] = rating
		}
		if err := binary.Write(&buf, order, ints); err != nil {
			return err
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// DecodeQuestions reads a questions record written by EncodeQuestions.
func DecodeQuestions(r io.Reader) ([]model.Question, error) {
	var header [2]int32
	if err := binary.Read(r, order, &header); err != nil {
		return nil, fmt.Errorf("%w: questions header: %v", ErrCorrupt, err)
	}
	count, slots := header[0], header[1]
	if count < 0 || slots < 0 {
		return nil, fmt.Errorf("%w: bad questions header %d/%d", ErrCorrupt, count, slots)
	}

	entrySize := TextWidth + UsernameWidth + int(slots)*(TextWidth+UsernameWidth) + 4*(1+int(slots))
	entry := make([]byte, entrySize)

	questions := make([]model.Question, 0, count)
	for qi := int32(0); qi < count; qi++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrCorrupt, qi, err)
		}

		off := 0
		q := model.Question{Text: getString(entry[off : off+TextWidth])}
		off += TextWidth
		q.Author = getString(entry[off : off+UsernameWidth])
		off += UsernameWidth

		texts := off
		authors := texts + int(slots)*TextWidth
		ints := authors + int(slots)*UsernameWidth

		n := int32(order.Uint32(entry[ints:]))
		if n < 0 || n > slots {
			return nil, fmt.Errorf("%w: question %d answer count %d", ErrCorrupt, qi, n)
		}

		q.Answers = make([]model.Answer, 0, n)
		for ai := 0; ai < int(n); ai++ {
			q.Answers = append(q.Answers, model.Answer{
				Text:   getString(entry[texts+ai*TextWidth : texts+(ai+1)*TextWidth]),
				Author: getString(entry[authors+ai*UsernameWidth : authors+(ai+1)*UsernameWidth]),
				Rating: int(int32(order.Uint32(entry[ints+4*(1+ai):]))),
			})
		}

		questions = append(questions, q)
	}

	return questions, nil
}

// putString copies s into dst and NUL-pads the rest. The last byte is always NUL.
func putString(dst []byte, s string) error {
	if len(s) >= len(dst) {
		return ErrFieldTooLong
	}
	n := copy(dst, s)
	clear(dst[n:])
	return nil
}

func getString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		src = src[:i]
	}
	return string(src)
}

func toInt32(n int) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return int32(n), nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
