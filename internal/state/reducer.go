package state

import (
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// Reduce 現在の状態にアクションを適用した新しい状態を返す
func Reduce(st State, action Action) State {
	next := st
	next.Operations = reduceOperations(st.Operations, action)

	switch action.Type {
	case LoadSuccess:
		next.UserEvents = fromEvents(action.Events)

	case CreateSuccess:
		next.UserEvents = withEvent(st.UserEvents, action.Event, true)

	case DeleteSuccess:
		next.UserEvents = withoutID(st.UserEvents, action.ID)

	case UpdateSuccess:
		next.UserEvents = withEvent(st.UserEvents, action.Event, false)

	case RecorderStart:
		next.DateStart = action.DateStart

	case RecorderStop:
		next.DateStart = time.Time{}
	}

	return next
}

func reduceOperations(ops map[Operation]OperationStatus, action Action) map[Operation]OperationStatus {
	op, status, ok := operationOf(action.Type)
	if !ok {
		return ops
	}

	next := make(map[Operation]OperationStatus, len(ops)+1)
	for k, v := range ops {
		next[k] = v
	}
	next[op] = OperationStatus{Status: status, Error: action.Error}
	return next
}

func fromEvents(events []domain.Event) UserEvents {
	ue := UserEvents{
		ByIDs:  make(map[string]domain.Event, len(events)),
		AllIDs: make([]string, 0, len(events)),
	}
	for _, event := range events {
		if _, dup := ue.ByIDs[event.ID]; !dup {
			ue.AllIDs = append(ue.AllIDs, event.ID)
		}
		ue.ByIDs[event.ID] = event
	}
	return ue
}

// withEvent イベントを置き換える。appendNew が true なら未登録の ID を末尾に追加する
func withEvent(ue UserEvents, event domain.Event, appendNew bool) UserEvents {
	_, exists := ue.ByIDs[event.ID]
	if !exists && !appendNew {
		return ue
	}

	byIDs := make(map[string]domain.Event, len(ue.ByIDs)+1)
	for k, v := range ue.ByIDs {
		byIDs[k] = v
	}
	byIDs[event.ID] = event

	allIDs := ue.AllIDs
	if !exists {
		allIDs = make([]string, 0, len(ue.AllIDs)+1)
		allIDs = append(allIDs, ue.AllIDs...)
		allIDs = append(allIDs, event.ID)
	}
	return UserEvents{ByIDs: byIDs, AllIDs: allIDs}
}

func withoutID(ue UserEvents, id string) UserEvents {
	if _, exists := ue.ByIDs[id]; !exists {
		return ue
	}

	byIDs := make(map[string]domain.Event, len(ue.ByIDs))
	for k, v := range ue.ByIDs {
		if k != id {
			byIDs[k] = v
		}
	}
	allIDs := make([]string, 0, len(ue.AllIDs))
	for _, stored := range ue.AllIDs {
		if stored != id {
			allIDs = append(allIDs, stored)
		}
	}
	return UserEvents{ByIDs: byIDs, AllIDs: allIDs}
}
