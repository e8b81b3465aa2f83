package notification

import (
	"sync"

	"society-console/internal/models"
)

// State 单条通知的已读状态
type State int

const (
	Unread State = iota
	Read
)

func (s State) String() string {
	if s == Read {
		return "read"
	}
	return "unread"
}

// Item 展示用通知
type Item struct {
	models.Notification
	State    State    `json:"-"`
	IsRead   bool     `json:"is_read"`
	Category Category `json:"category"`
	Icon     Icon     `json:"icon"`
}

// Transition 一次乐观的已读变更，用于确认或回滚
type Transition struct {
	seq uint64
	ids []int64
}

// IDs 本次变更涉及的通知
func (t Transition) IDs() []int64 {
	return append([]int64(nil), t.ids...)
}

// Empty 没有任何通知发生变化
func (t Transition) Empty() bool {
	return len(t.ids) == 0
}

// Feed 查看者可见通知及未读计数。
// 已读标记先在本地生效（乐观更新），服务端失败时 Revert 回滚；
// 尚未确认的已读在刷新结果里保持已读，确认后以服务端为准。
type Feed struct {
	mu      sync.Mutex
	items   []Item
	index   map[int64]int
	unread  int
	seq     uint64
	pending map[int64]uint64 // notification id -> transition seq
}

func NewFeed() *Feed {
	return &Feed{
		index:   make(map[int64]int),
		pending: make(map[int64]uint64),
	}
}

// Replace 装入一次刷新结果（调用方负责先做可见性过滤）
func (f *Feed) Replace(visible []models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]Item, 0, len(visible))
	index := make(map[int64]int, len(visible))
	unread := 0
	for _, n := range visible {
		nid, ok := n.NotificationID.Get()
		if !ok {
			continue
		}
		if _, dup := index[nid]; dup {
			continue
		}
		state := Unread
		if n.IsReadByUser.Bool() {
			state = Read
		} else if _, optimistic := f.pending[nid]; optimistic {
			state = Read
		}
		if state == Unread {
			unread++
		}
		category, icon := Classify(n.Type)
		index[nid] = len(items)
		items = append(items, Item{Notification: n, State: state, IsRead: state == Read, Category: category, Icon: icon})
	}

	f.items = items
	f.index = index
	f.unread = unread
}

// MarkOne 将一条未读通知标记为已读，计数减一（不小于 0）。
// 通知不存在或已读时返回 false，不产生变更。
func (f *Feed) MarkOne(id int64) (Transition, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i, ok := f.index[id]
	if !ok || f.items[i].State == Read {
		return Transition{}, false
	}
	f.setState(i, Read)
	f.decrement()
	return f.track([]int64{id}), true
}

// MarkAll 所有可见未读通知标记为已读，计数归零
func (f *Feed) MarkAll() Transition {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []int64
	for i := range f.items {
		if f.items[i].State == Unread {
			f.setState(i, Read)
			if nid, ok := f.items[i].NotificationID.Get(); ok {
				ids = append(ids, nid)
			}
		}
	}
	f.unread = 0
	return f.track(ids)
}

// Revert 服务端失败：把仍属于该变更的通知恢复为未读
func (f *Feed) Revert(t Transition) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, nid := range t.ids {
		if f.pending[nid] != t.seq {
			continue
		}
		delete(f.pending, nid)
		// 刷新结果里服务端已确认为已读的不回滚
		if i, ok := f.index[nid]; ok && f.items[i].State == Read && !f.items[i].IsReadByUser.Bool() {
			f.setState(i, Unread)
			f.unread++
		}
	}
}

// Commit 服务端确认：之后的刷新以服务端状态为准
func (f *Feed) Commit(t Transition) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, nid := range t.ids {
		if f.pending[nid] == t.seq {
			delete(f.pending, nid)
		}
	}
}

// UnreadCount 未读计数
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// Items 当前通知快照（副本）
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item(nil), f.items...)
}

// Snapshot 同一把锁下取通知副本与未读计数，二者保证一致
func (f *Feed) Snapshot() ([]Item, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item(nil), f.items...), f.unread
}

// StateOf 查询单条通知状态
func (f *Feed) StateOf(id int64) (State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.index[id]
	if !ok {
		return Unread, false
	}
	return f.items[i].State, true
}

func (f *Feed) setState(i int, s State) {
	f.items[i].State = s
	f.items[i].IsRead = s == Read
}

func (f *Feed) decrement() {
	if f.unread > 0 {
		f.unread--
	}
}

func (f *Feed) track(ids []int64) Transition {
	f.seq++
	for _, nid := range ids {
		f.pending[nid] = f.seq
	}
	return Transition{seq: f.seq, ids: ids}
}
