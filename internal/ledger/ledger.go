package ledger

import (
	"context"
	"errors"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/naeri/kokoto-httpd/internal/model"
	"github.com/naeri/kokoto-httpd/internal/store"
)

// Ledger maintains tag identity and usage counts. Every method operates on
// the transaction store handed in by the caller, so count adjustments commit
// or roll back together with the revision writes that caused them.
type Ledger struct{}

func New() *Ledger {
	return &Ledger{}
}

// Input names a tag to attach. Color is last-write-wins across attaches.
type Input struct {
	Title string
	Color string
}

// Attach records one more live revision using the tag, creating it with a
// count of 1 on first use. A duplicate-key failure on create means a
// concurrent transaction won the race; the create is retried as an increment.
func (l *Ledger) Attach(ctx context.Context, tx store.Store, title, color string) (*model.Tag, error) {
	tag, err := tx.GetTagByTitle(ctx, title)
	if err == nil {
		return l.increment(ctx, tx, tag, color)
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, err
	}

	tag = &model.Tag{
		ID:    uuid.New().String(),
		Title: title,
		Color: color,
		Count: 1,
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	// the insert runs in a savepoint; on postgres a unique violation would
	// otherwise abort the surrounding transaction and the retry below could
	// never execute
	err = tx.Transaction(ctx, func(tx store.Store) error {
		return tx.CreateTag(ctx, tag)
	})
	if store.IsDuplicateKey(err) {
		logrus.Infof("tag %q created concurrently, retrying as increment", title)
		tag, err = tx.GetTagByTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		return l.increment(ctx, tx, tag, color)
	}
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// AttachAll attaches every distinct title in inputs. A title listed twice
// attaches once; color is last-write-wins, so the last occurrence supplies
// the color, the same way a later attacher overwrites it.
func (l *Ledger) AttachAll(ctx context.Context, tx store.Store, inputs []Input) ([]*model.Tag, error) {
	seen := mapset.NewSet[string]()
	order := make([]string, 0, len(inputs))
	colors := make(map[string]string, len(inputs))

	for _, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if seen.Add(title) {
			order = append(order, title)
		}
		colors[title] = in.Color
	}

	tags := make([]*model.Tag, 0, len(order))
	for _, title := range order {
		tag, err := l.Attach(ctx, tx, title, colors[title])
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// Detach records that a revision referencing the tag was archived. The tag
// row is deleted when its count reaches zero. Detaching an unknown tag ID is
// a programming error and surfaces as store.ErrTagNotFound.
func (l *Ledger) Detach(ctx context.Context, tx store.Store, tagID string) error {
	tag, err := tx.GetTag(ctx, tagID)
	if err != nil {
		return err
	}

	if tag.Count <= 1 {
		logrus.Infof("tag %q count reached zero, deleting", tag.Title)
		return tx.DeleteTag(ctx, tag.ID)
	}

	tag.Count--
	return tx.UpdateTag(ctx, tag)
}

func (l *Ledger) increment(ctx context.Context, tx store.Store, tag *model.Tag, color string) (*model.Tag, error) {
	tag.Count++
	tag.Color = color
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, tx.UpdateTag(ctx, tag)
}
