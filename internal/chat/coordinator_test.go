package chat

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/broker"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/history"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/presence"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/room"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/storage"
)

// recordedPublish captures one broker call in arrival order. Topic
// publishes leave connID empty; private deliveries leave topic empty.
type recordedPublish struct {
	topic      string
	connID     string
	subchannel string
	payload    interface{}
}

type fakeBroker struct {
	mu     sync.Mutex
	events []recordedPublish
}

func (b *fakeBroker) PublishTopic(topic string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedPublish{topic: topic, payload: payload})
	return nil
}

func (b *fakeBroker) PublishToConn(connID, subchannel string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedPublish{connID: connID, subchannel: subchannel, payload: payload})
	return nil
}

func (b *fakeBroker) all() []recordedPublish {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedPublish, len(b.events))
	copy(out, b.events)
	return out
}

func (b *fakeBroker) reset() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}

type fakeWriter struct {
	mu       sync.Mutex
	enqueued []domain.ChatMessage
}

func (w *fakeWriter) Enqueue(msg domain.ChatMessage) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueued = append(w.enqueued, msg)
	return true
}

func (w *fakeWriter) all() []domain.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.ChatMessage, len(w.enqueued))
	copy(out, w.enqueued)
	return out
}

func (w *fakeWriter) reset() {
	w.mu.Lock()
	w.enqueued = nil
	w.mu.Unlock()
}

type fixture struct {
	coord  Coordinator
	broker *fakeBroker
	writer *fakeWriter
	reg    *presence.Registry
	store  *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := room.NewMemoryDirectory()
	ctx := context.Background()
	if _, err := dir.Create(ctx, "general", "General", ""); err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := dir.Create(ctx, "tech", "Tech", ""); err != nil {
		t.Fatalf("create room: %v", err)
	}

	store := storage.NewMemoryStore()
	reg := presence.NewRegistry()
	b := &fakeBroker{}
	w := &fakeWriter{}
	coord := NewCoordinator(reg, dir, history.NewService(store, nil, 0), w, b, 50)

	return &fixture{coord: coord, broker: b, writer: w, reg: reg, store: store}
}

func TestJoinRejectsUnknownRoom(t *testing.T) {
	f := newFixture(t)

	err := f.coord.HandleJoin(context.Background(), "c1", domain.JoinRequest{
		Username: "ada", RoomID: "no-such-room",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	events := f.broker.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one delivery, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.connID != "c1" || ev.subchannel != broker.SubchannelErrors {
		t.Fatalf("expected private error delivery to c1, got %+v", ev)
	}
	errPayload, ok := ev.payload.(*domain.ErrorPayload)
	if !ok {
		t.Fatalf("expected *ErrorPayload, got %T", ev.payload)
	}
	if errPayload.Code != domain.ErrCodeBadRequest || errPayload.Message != "Invalid username or room ID" {
		t.Fatalf("unexpected error payload: %+v", errPayload)
	}

	if got := f.reg.TotalOnlineCount(); got != 0 {
		t.Fatalf("rejected join mutated presence: %d users online", got)
	}
	if got := f.writer.all(); len(got) != 0 {
		t.Fatalf("rejected join enqueued writes: %+v", got)
	}
}

func TestJoinRejectsBlankUsername(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.HandleJoin(context.Background(), "c1", domain.JoinRequest{
		Username: "   ", RoomID: "general",
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	events := f.broker.all()
	if len(events) != 1 || events[0].subchannel != broker.SubchannelErrors {
		t.Fatalf("expected single private error delivery, got %+v", events)
	}
	if got := f.reg.TotalOnlineCount(); got != 0 {
		t.Fatalf("rejected join mutated presence: %d users online", got)
	}
}

func TestJoinDeliveryOrder(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.HandleJoin(context.Background(), "c1", domain.JoinRequest{
		Username: "ada", RoomID: "general",
	}); err != nil {
		t.Fatalf("join: %v", err)
	}

	events := f.broker.all()
	if len(events) != 3 {
		t.Fatalf("expected history, notice, roster; got %d events: %+v", len(events), events)
	}

	// 1. Private history delivery reaches the joiner first.
	if events[0].connID != "c1" || events[0].subchannel != broker.SubchannelHistory {
		t.Fatalf("first event is not the history delivery: %+v", events[0])
	}
	hist, ok := events[0].payload.(*domain.HistoryPayload)
	if !ok {
		t.Fatalf("expected *HistoryPayload, got %T", events[0].payload)
	}
	if hist.RoomID != "general" {
		t.Fatalf("history for wrong room: %q", hist.RoomID)
	}
	if hist.Messages == nil || len(hist.Messages) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", hist.Messages)
	}

	// 2. Join notice on the room topic.
	if events[1].topic != broker.RoomTopic("general") {
		t.Fatalf("second event is not the room notice: %+v", events[1])
	}
	notice, ok := events[1].payload.(domain.ChatMessage)
	if !ok {
		t.Fatalf("expected ChatMessage, got %T", events[1].payload)
	}
	if notice.Sender != domain.SystemSender || notice.Content != "ada joined the room" || notice.Type != domain.MessageJoin {
		t.Fatalf("unexpected join notice: %+v", notice)
	}

	// 3. Roster on the users topic.
	if events[2].topic != broker.RoomUsersTopic("general") {
		t.Fatalf("third event is not the roster: %+v", events[2])
	}
	roster, ok := events[2].payload.(*domain.UsersPayload)
	if !ok {
		t.Fatalf("expected *UsersPayload, got %T", events[2].payload)
	}
	if !reflect.DeepEqual(roster.Users, []string{"ada"}) {
		t.Fatalf("unexpected roster: %+v", roster.Users)
	}

	writes := f.writer.all()
	if len(writes) != 1 || writes[0].Content != "ada joined the room" {
		t.Fatalf("expected the join notice enqueued for persistence, got %+v", writes)
	}
}

func TestJoinDeliversRecentHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second"} {
		if _, err := f.store.Append(ctx, domain.ChatMessage{
			Content: content, Sender: "bo", RoomID: "general", Type: domain.MessageChat,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := f.coord.HandleJoin(ctx, "c1", domain.JoinRequest{Username: "ada", RoomID: "general"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	hist := f.broker.all()[0].payload.(*domain.HistoryPayload)
	if len(hist.Messages) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(hist.Messages))
	}
	if hist.Messages[0].Content != "first" || hist.Messages[1].Content != "second" {
		t.Fatalf("history out of order: %+v", hist.Messages)
	}
}

func TestSendBroadcastsAndEnqueues(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.HandleSend(context.Background(), domain.SendRequest{
		Content: `<b>hi</b>`, Sender: `eve"`, RoomID: "general",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	events := f.broker.all()
	if len(events) != 1 || events[0].topic != broker.RoomTopic("general") {
		t.Fatalf("expected one room broadcast, got %+v", events)
	}
	msg, ok := events[0].payload.(domain.ChatMessage)
	if !ok {
		t.Fatalf("expected ChatMessage, got %T", events[0].payload)
	}
	if msg.Content != "&lt;b&gt;hi&lt;/b&gt;" {
		t.Fatalf("content not sanitized: %q", msg.Content)
	}
	if msg.Sender != "eve&quot;" {
		t.Fatalf("sender not sanitized: %q", msg.Sender)
	}
	if msg.Type != domain.MessageChat || msg.Timestamp.IsZero() {
		t.Fatalf("unexpected broadcast message: %+v", msg)
	}
	if msg.ID != 0 {
		t.Fatalf("broadcast must not carry a store-assigned ID, got %d", msg.ID)
	}

	writes := f.writer.all()
	if len(writes) != 1 || writes[0].Content != msg.Content {
		t.Fatalf("expected the message enqueued for persistence, got %+v", writes)
	}
}

func TestSendDropsBlankMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []domain.SendRequest{
		{Content: "   ", Sender: "ada", RoomID: "general"},
		{Content: "hello", Sender: "  ", RoomID: "general"},
	}
	for _, req := range cases {
		if err := f.coord.HandleSend(ctx, req); err != nil {
			t.Fatalf("send %+v: %v", req, err)
		}
	}

	if events := f.broker.all(); len(events) != 0 {
		t.Fatalf("blank sends broadcast: %+v", events)
	}
	if writes := f.writer.all(); len(writes) != 0 {
		t.Fatalf("blank sends enqueued: %+v", writes)
	}
}

func TestSendDoesNotValidateRoom(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.HandleSend(context.Background(), domain.SendRequest{
		Content: "hi", Sender: "ada", RoomID: "never-created",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	events := f.broker.all()
	if len(events) != 1 || events[0].topic != broker.RoomTopic("never-created") {
		t.Fatalf("expected broadcast to the unchecked room, got %+v", events)
	}
}

func TestTypingRelaysVerbatim(t *testing.T) {
	f := newFixture(t)

	ev := domain.TypingEvent{Username: "ada", RoomID: "general", Typing: true}
	if err := f.coord.HandleTyping(context.Background(), ev); err != nil {
		t.Fatalf("typing: %v", err)
	}

	events := f.broker.all()
	if len(events) != 1 || events[0].topic != broker.RoomTypingTopic("general") {
		t.Fatalf("expected one typing relay, got %+v", events)
	}
	if got, ok := events[0].payload.(domain.TypingEvent); !ok || got != ev {
		t.Fatalf("typing event altered in relay: %+v", events[0].payload)
	}
	if writes := f.writer.all(); len(writes) != 0 {
		t.Fatalf("typing events must not be persisted: %+v", writes)
	}
}

func TestLeaveRemovesByConnID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.coord.HandleJoin(ctx, "c1", domain.JoinRequest{Username: "ada", RoomID: "general"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	f.broker.reset()
	f.writer.reset()

	if err := f.coord.HandleLeave(ctx, "c1", domain.LeaveRequest{Username: "ada", RoomID: "general"}); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if got := f.reg.TotalOnlineCount(); got != 0 {
		t.Fatalf("session survived leave: %d online", got)
	}

	events := f.broker.all()
	if len(events) != 2 {
		t.Fatalf("expected notice and roster, got %+v", events)
	}
	notice := events[0].payload.(domain.ChatMessage)
	if events[0].topic != broker.RoomTopic("general") || notice.Content != "ada left the room" || notice.Type != domain.MessageLeave {
		t.Fatalf("unexpected leave notice: %+v", events[0])
	}
	roster := events[1].payload.(*domain.UsersPayload)
	if events[1].topic != broker.RoomUsersTopic("general") || len(roster.Users) != 0 {
		t.Fatalf("unexpected roster after leave: %+v", events[1])
	}

	writes := f.writer.all()
	if len(writes) != 1 || writes[0].Content != "ada left the room" {
		t.Fatalf("expected the leave notice enqueued, got %+v", writes)
	}
}

func TestDisconnectWithoutJoinIsNoop(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.HandleDisconnect(context.Background(), "never-joined"); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if events := f.broker.all(); len(events) != 0 {
		t.Fatalf("disconnect of unknown connection broadcast: %+v", events)
	}
}

func TestDisconnectBroadcastsRosterAndGlobalCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.coord.HandleJoin(ctx, "c1", domain.JoinRequest{Username: "ada", RoomID: "general"}); err != nil {
		t.Fatalf("join ada: %v", err)
	}
	if err := f.coord.HandleJoin(ctx, "c2", domain.JoinRequest{Username: "bo", RoomID: "general"}); err != nil {
		t.Fatalf("join bo: %v", err)
	}
	f.broker.reset()
	f.writer.reset()

	if err := f.coord.HandleDisconnect(ctx, "c1"); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	events := f.broker.all()
	if len(events) != 2 {
		t.Fatalf("expected roster and global count only, got %+v", events)
	}

	roster := events[0].payload.(*domain.UsersPayload)
	if events[0].topic != broker.RoomUsersTopic("general") || !reflect.DeepEqual(roster.Users, []string{"bo"}) {
		t.Fatalf("unexpected roster after disconnect: %+v", events[0])
	}

	count := events[1].payload.(*domain.OnlineCountPayload)
	if events[1].topic != broker.TopicOnlineCount || count.Count != 1 {
		t.Fatalf("unexpected global count: %+v", events[1])
	}

	// Abrupt disconnects never produce a chat-visible leave notice.
	for _, ev := range events {
		if ev.topic == broker.RoomTopic("general") {
			t.Fatalf("disconnect broadcast a room notice: %+v", ev)
		}
	}
	if writes := f.writer.all(); len(writes) != 0 {
		t.Fatalf("disconnect enqueued writes: %+v", writes)
	}
}
