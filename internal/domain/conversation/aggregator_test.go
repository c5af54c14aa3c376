package conversation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/talentsync/talentsync/internal/domain/conversation"
	"github.com/talentsync/talentsync/internal/domain/model"
)

func raw(id, sender, receiver, content string, at time.Time) model.RawMessage {
	return model.RawMessage{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		Timestamp:  at.Format(time.RFC3339),
	}
}

func TestAggregatorIngest(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Convey("Given an aggregator for user-a", t, func() {
		a := conversation.NewAggregator("user-a")

		Convey("When messages from two partners arrive", func() {
			results := a.Ingest(ctx, []model.RawMessage{
				raw("m1", "user-b", "user-a", "hi", base),
				raw("m2", "user-a", "user-b", "hello", base.Add(time.Minute)),
				raw("m3", "user-c", "user-a", "ping", base.Add(2*time.Minute)),
			})

			Convey("Then threads group by the unordered pair", func() {
				So(a.Len(), ShouldEqual, 2)
				for _, r := range results {
					So(r.Err, ShouldBeNil)
					So(r.Duplicate, ShouldBeFalse)
				}

				conv, err := a.Get("user-a_user-b")
				So(err, ShouldBeNil)
				So(len(conv.Messages), ShouldEqual, 2)
			})

			Convey("Then listing orders by last activity, newest first", func() {
				convs := a.List()
				So(convs[0].ID, ShouldEqual, "user-a_user-c")
				So(convs[1].ID, ShouldEqual, "user-a_user-b")
			})

			Convey("Then only partner messages count as unread", func() {
				conv, _ := a.Get("user-a_user-b")
				So(conv.UnreadCount, ShouldEqual, 1)
				So(a.UnreadTotal(), ShouldEqual, 2)
			})
		})

		Convey("When the same batch is delivered twice", func() {
			batch := []model.RawMessage{
				raw("m1", "user-b", "user-a", "hi", base),
				raw("m2", "user-a", "user-b", "hello", base.Add(time.Minute)),
			}
			a.Ingest(ctx, batch)
			results := a.Ingest(ctx, batch)

			Convey("Then re-delivery changes nothing", func() {
				for _, r := range results {
					So(r.Duplicate, ShouldBeTrue)
				}
				conv, _ := a.Get("user-a_user-b")
				So(len(conv.Messages), ShouldEqual, 2)
				So(conv.UnreadCount, ShouldEqual, 1)
			})
		})

		Convey("When a batch contains a malformed message", func() {
			results := a.Ingest(ctx, []model.RawMessage{
				raw("m1", "user-b", "user-a", "ok", base),
				{ID: "m2", SenderID: "user-b"}, // no receiver, no conversation id
				raw("m3", "user-b", "user-a", "still ok", base.Add(time.Minute)),
			})

			Convey("Then only the malformed one is skipped", func() {
				So(results[0].Err, ShouldBeNil)
				So(results[1].Err, ShouldNotBeNil)
				So(results[2].Err, ShouldBeNil)
				conv, _ := a.Get("user-a_user-b")
				So(len(conv.Messages), ShouldEqual, 2)
			})
		})

		Convey("When messages arrive out of order", func() {
			a.Ingest(ctx, []model.RawMessage{
				raw("m2", "user-b", "user-a", "second", base.Add(time.Hour)),
				raw("m1", "user-b", "user-a", "first", base),
			})
			conv, _ := a.Get("user-a_user-b")

			Convey("Then the thread is ordered by timestamp", func() {
				So(conv.Messages[0].ID, ShouldEqual, "m1")
				So(conv.Messages[1].ID, ShouldEqual, "m2")
				So(conv.LastActivity, ShouldResemble, base.Add(time.Hour))
			})
		})
	})
}

func TestAggregatorReadState(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Convey("Given a thread with unread partner messages", t, func() {
		a := conversation.NewAggregator("user-a")
		a.Ingest(ctx, []model.RawMessage{
			raw("m1", "user-b", "user-a", "one", base),
			raw("m2", "user-b", "user-a", "two", base.Add(time.Minute)),
			raw("m3", "user-a", "user-b", "mine", base.Add(2*time.Minute)),
		})

		Convey("When the thread is marked read", func() {
			err := a.MarkRead("user-a_user-b")

			Convey("Then unread drops to zero and partner messages flip", func() {
				So(err, ShouldBeNil)
				conv, _ := a.Get("user-a_user-b")
				So(conv.UnreadCount, ShouldEqual, 0)
				for _, m := range conv.Messages {
					if m.SenderID != "user-a" {
						So(m.Read, ShouldBeTrue)
					}
				}
			})
		})

		Convey("When an unknown thread is marked read", func() {
			err := a.MarkRead("nobody_nowhere")

			Convey("Then it reports not found", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestAggregatorClear(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Convey("Given a populated thread", t, func() {
		a := conversation.NewAggregator("user-a")
		batch := []model.RawMessage{
			raw("m1", "user-b", "user-a", "one", base),
			raw("m2", "user-b", "user-a", "two", base.Add(time.Minute)),
		}
		a.Ingest(ctx, batch)

		Convey("When the thread is cleared", func() {
			err := a.Clear("user-a_user-b")

			Convey("Then the thread survives but is empty", func() {
				So(err, ShouldBeNil)
				conv, getErr := a.Get("user-a_user-b")
				So(getErr, ShouldBeNil)
				So(conv.Messages, ShouldBeEmpty)
				So(conv.UnreadCount, ShouldEqual, 0)
			})

			Convey("And re-delivery does not resurrect cleared messages", func() {
				a.Ingest(ctx, batch)
				conv, _ := a.Get("user-a_user-b")
				So(conv.Messages, ShouldBeEmpty)
			})

			Convey("But genuinely new messages still land", func() {
				a.Ingest(ctx, []model.RawMessage{
					raw("m9", "user-b", "user-a", "fresh", base.Add(time.Hour)),
				})
				conv, _ := a.Get("user-a_user-b")
				So(len(conv.Messages), ShouldEqual, 1)
			})
		})
	})
}

func TestAggregatorListCopies(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	Convey("Given a listed conversation", t, func() {
		a := conversation.NewAggregator("user-a")
		a.Ingest(ctx, []model.RawMessage{raw("m1", "user-b", "user-a", "hi", base)})

		convs := a.List()
		convs[0].Messages[0].Content = "tampered"
		convs[0].Messages = nil

		Convey("Then mutating the copy leaves the state intact", func() {
			fresh, _ := a.Get("user-a_user-b")
			So(len(fresh.Messages), ShouldEqual, 1)
			So(fresh.Messages[0].Content, ShouldEqual, "hi")
		})
	})
}

func TestAggregatorLargeBatch(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given one batch with many interleaved threads", t, func() {
		a := conversation.NewAggregator("user-a")
		batch := make([]model.RawMessage, 0, 60)
		for i := 0; i < 60; i++ {
			partner := fmt.Sprintf("partner-%d", i%3)
			batch = append(batch, raw(
				fmt.Sprintf("m%03d", i),
				partner, "user-a", "body",
				base.Add(time.Duration(i)*time.Minute),
			))
		}
		a.Ingest(ctx, batch)

		Convey("Then each thread holds its own messages in order", func() {
			So(a.Len(), ShouldEqual, 3)
			for p := 0; p < 3; p++ {
				conv, err := a.Get(model.ConversationID("user-a", fmt.Sprintf("partner-%d", p)))
				So(err, ShouldBeNil)
				So(len(conv.Messages), ShouldEqual, 20)
				for i := 1; i < len(conv.Messages); i++ {
					So(conv.Messages[i].Timestamp.Before(conv.Messages[i-1].Timestamp), ShouldBeFalse)
				}
			}
		})
	})
}
