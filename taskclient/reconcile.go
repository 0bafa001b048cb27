package taskclient

import (
	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

// MutationKind はローカル変更の種別です。
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

// MutationEvent はサーバーが確定させたローカル変更を表します。
// Delete では Task.ID だけが使われます。
type MutationEvent struct {
	Kind MutationKind
	Task models.Task
}

// matchesFilter はタスクがアクティブなフィルタに合致するかを返します。
func matchesFilter(t models.Task, filter taskquery.StatusFilter) bool {
	switch filter {
	case taskquery.StatusPending:
		return t.Status == models.StatusPending
	case taskquery.StatusCompleted:
		return t.Status == models.StatusCompleted
	default:
		return true
	}
}

// Reconcile は表示中のリストへローカル変更を反映した新しいリストを返します。
// 再取得なしで:
//   - 作成: アクティブなフィルタに合致する場合のみ先頭へ追加
//   - 更新: 合致すればその場で置換、合致しなくなれば除去
//   - 削除: 即時除去
//
// 純関数であり、引数のリストは変更しません。
func Reconcile(list []models.Task, ev MutationEvent, filter taskquery.StatusFilter) []models.Task {
	switch ev.Kind {
	case MutationCreate:
		if !matchesFilter(ev.Task, filter) {
			return list
		}
		out := make([]models.Task, 0, len(list)+1)
		out = append(out, ev.Task)
		out = append(out, list...)
		return out

	case MutationUpdate:
		out := make([]models.Task, 0, len(list))
		for _, t := range list {
			if t.ID != ev.Task.ID {
				out = append(out, t)
				continue
			}
			if matchesFilter(ev.Task, filter) {
				out = append(out, ev.Task)
			}
			// フィルタから外れた項目は黙って消える
		}
		return out

	case MutationDelete:
		out := make([]models.Task, 0, len(list))
		for _, t := range list {
			if t.ID != ev.Task.ID {
				out = append(out, t)
			}
		}
		return out
	}
	return list
}
