package taskservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeStore backs a Service with maps so workflows can run without a
// database. It implements TaskStorer, ListStorer and CommentStorer.
type fakeStore struct {
	tasks       map[string]tasksrepo.Task
	lists       map[string]tasklistsrepo.TaskList
	memberships map[string]tasklistsrepo.Membership
	comments    []commentsrepo.Comment

	failSetDone map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:       make(map[string]tasksrepo.Task),
		lists:       make(map[string]tasklistsrepo.TaskList),
		memberships: make(map[string]tasklistsrepo.Membership),
		failSetDone: make(map[string]error),
	}
}

func memKey(listID, userID string) string {
	return listID + "|" + userID
}

func (f *fakeStore) Create(ctx context.Context, nt tasksrepo.CreateTask) (tasksrepo.Task, error) {
	tsk := tasksrepo.Task{
		TaskID:             uuid.NewString(),
		TaskListID:         nt.TaskListID,
		Title:              nt.Title,
		TaskType:           nt.TaskType,
		PrerequisiteTaskID: nt.PrerequisiteTaskID,
		ParentTaskID:       nt.ParentTaskID,
		TaskCreator:        nt.TaskCreator,
		CreatedAt:          time.Now(),
	}
	f.tasks[tsk.TaskID] = tsk
	return tsk, nil
}

func (f *fakeStore) Delete(ctx context.Context, taskID string) error {
	if _, ok := f.tasks[taskID]; !ok {
		return postgresdb.ErrDBNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeStore) QueryByID(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	tsk, ok := f.tasks[taskID]
	if !ok {
		return tasksrepo.Task{}, fmt.Errorf("task: %w", postgresdb.ErrDBNotFound)
	}
	return tsk, nil
}

func (f *fakeStore) QueryChildren(ctx context.Context, parentTaskID string) ([]tasksrepo.Task, error) {
	var out []tasksrepo.Task
	for _, tsk := range f.tasks {
		if tsk.ParentTaskID != nil && *tsk.ParentTaskID == parentTaskID {
			out = append(out, tsk)
		}
	}
	return out, nil
}

func (f *fakeStore) SetDone(ctx context.Context, taskID string, done bool) (tasksrepo.Task, error) {
	if err := f.failSetDone[taskID]; err != nil {
		return tasksrepo.Task{}, err
	}
	tsk, ok := f.tasks[taskID]
	if !ok {
		return tasksrepo.Task{}, postgresdb.ErrDBNotFound
	}
	tsk.IsDone = done
	if done {
		now := time.Now()
		tsk.FinishDate = &now
	} else {
		tsk.FinishDate = nil
	}
	f.tasks[taskID] = tsk
	return tsk, nil
}

func (f *fakeStore) SetArchived(ctx context.Context, taskID string, archived bool) (tasksrepo.Task, error) {
	tsk, ok := f.tasks[taskID]
	if !ok {
		return tasksrepo.Task{}, postgresdb.ErrDBNotFound
	}
	tsk.IsArchived = archived
	f.tasks[taskID] = tsk
	return tsk, nil
}

type fakeLists struct{ f *fakeStore }

func (l fakeLists) Create(ctx context.Context, nl tasklistsrepo.CreateTaskList) (tasklistsrepo.TaskList, error) {
	tl := tasklistsrepo.TaskList{
		TaskListID: uuid.NewString(),
		PatientID:  nl.PatientID,
		Name:       nl.Name,
		CreatedAt:  time.Now(),
	}
	l.f.lists[tl.TaskListID] = tl
	return tl, nil
}

func (l fakeLists) AddMember(ctx context.Context, taskListID string, nm tasklistsrepo.CreateMembership) (tasklistsrepo.Membership, error) {
	mem := tasklistsrepo.Membership{
		MembershipID: uuid.NewString(),
		TaskListID:   taskListID,
		UserID:       nm.UserID,
		Permission:   nm.Permission,
		EndDate:      nm.EndDate,
	}
	if nm.StartDate != nil {
		mem.StartDate = *nm.StartDate
	} else {
		mem.StartDate = time.Now()
	}
	l.f.memberships[memKey(taskListID, nm.UserID)] = mem
	return mem, nil
}

func (l fakeLists) QueryByID(ctx context.Context, taskListID string) (tasklistsrepo.TaskList, error) {
	tl, ok := l.f.lists[taskListID]
	if !ok {
		return tasklistsrepo.TaskList{}, postgresdb.ErrDBNotFound
	}
	return tl, nil
}

func (l fakeLists) QueryMembership(ctx context.Context, taskListID string, userID string) (tasklistsrepo.Membership, error) {
	mem, ok := l.f.memberships[memKey(taskListID, userID)]
	if !ok {
		return tasklistsrepo.Membership{}, fmt.Errorf("membership: %w", postgresdb.ErrDBNotFound)
	}
	return mem, nil
}

func (l fakeLists) AdjustCounts(ctx context.Context, taskListID string, completedDelta int, uncompletedDelta int) error {
	tl, ok := l.f.lists[taskListID]
	if !ok {
		return postgresdb.ErrDBNotFound
	}
	tl.CompletedCount += completedDelta
	tl.UncompletedCount += uncompletedDelta
	l.f.lists[taskListID] = tl
	return nil
}

func (f *fakeStore) CreateComment(ctx context.Context, nc commentsrepo.CreateComment) (commentsrepo.Comment, error) {
	cmt := commentsrepo.Comment{
		CommentID: uuid.NewString(),
		TaskID:    nc.TaskID,
		AuthorID:  nc.AuthorID,
		Content:   nc.Content,
		CreatedAt: time.Now(),
	}
	f.comments = append(f.comments, cmt)
	return cmt, nil
}

type fakeComments struct{ f *fakeStore }

func (c fakeComments) Create(ctx context.Context, nc commentsrepo.CreateComment) (commentsrepo.Comment, error) {
	return c.f.CreateComment(ctx, nc)
}

// fakeTran snapshots the store before the function runs and restores it on
// error, mirroring a transaction rollback.
type fakeTran struct{ f *fakeStore }

func (t fakeTran) WithinTran(ctx context.Context, fn func(ctx context.Context) error) error {
	tasks := make(map[string]tasksrepo.Task, len(t.f.tasks))
	for k, v := range t.f.tasks {
		tasks[k] = v
	}
	lists := make(map[string]tasklistsrepo.TaskList, len(t.f.lists))
	for k, v := range t.f.lists {
		lists[k] = v
	}

	if err := fn(ctx); err != nil {
		t.f.tasks = tasks
		t.f.lists = lists
		return err
	}
	return nil
}

// fixture wires a Service over fakes with one list, one manager and one
// member.
type fixture struct {
	svc       *Service
	store     *fakeStore
	listID    string
	managerID string
	memberID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	listID := uuid.NewString()
	managerID := uuid.NewString()
	memberID := uuid.NewString()

	store.lists[listID] = tasklistsrepo.TaskList{TaskListID: listID}
	store.memberships[memKey(listID, managerID)] = tasklistsrepo.Membership{
		TaskListID: listID,
		UserID:     managerID,
		Permission: tasklistsrepo.PermissionManager,
		StartDate:  time.Now().Add(-time.Hour),
	}
	store.memberships[memKey(listID, memberID)] = tasklistsrepo.Membership{
		TaskListID: listID,
		UserID:     memberID,
		Permission: tasklistsrepo.PermissionMember,
		StartDate:  time.Now().Add(-time.Hour),
	}

	svc := NewService(logger.NewDefault("taskservice-test"), store, fakeLists{store}, fakeComments{store}, fakeTran{store})

	return &fixture{
		svc:       svc,
		store:     store,
		listID:    listID,
		managerID: managerID,
		memberID:  memberID,
	}
}

func (fx *fixture) addTask(done bool, parentID, prereqID *string) tasksrepo.Task {
	tsk := tasksrepo.Task{
		TaskID:             uuid.NewString(),
		TaskListID:         fx.listID,
		Title:              "task",
		TaskType:           tasksrepo.TypeGeneral,
		IsDone:             done,
		ParentTaskID:       parentID,
		PrerequisiteTaskID: prereqID,
		TaskCreator:        fx.memberID,
		CreatedAt:          time.Now(),
	}
	fx.store.tasks[tsk.TaskID] = tsk

	tl := fx.store.lists[fx.listID]
	if done {
		tl.CompletedCount++
	} else {
		tl.UncompletedCount++
	}
	fx.store.lists[fx.listID] = tl

	return tsk
}

func TestComplete(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	got, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.NoError(t, err)
	require.True(t, got.IsDone)
	require.NotNil(t, got.FinishDate)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.CompletedCount)
	require.Equal(t, 0, tl.UncompletedCount)
}

func TestCompleteIdempotent(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(true, nil, nil)

	got, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.NoError(t, err)
	require.True(t, got.IsDone)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.CompletedCount, "counters must not move on a no-op")
}

func TestCompletePrerequisiteOpen(t *testing.T) {
	fx := newFixture(t)
	prereq := fx.addTask(false, nil, nil)
	tsk := fx.addTask(false, nil, &prereq.TaskID)

	_, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.ErrorIs(t, err, ErrPrerequisiteOpen)
	require.False(t, fx.store.tasks[tsk.TaskID].IsDone)
}

func TestCompletePrerequisiteDone(t *testing.T) {
	fx := newFixture(t)
	prereq := fx.addTask(true, nil, nil)
	tsk := fx.addTask(false, nil, &prereq.TaskID)

	got, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.NoError(t, err)
	require.True(t, got.IsDone)
}

func TestCompleteCascadeOneLevel(t *testing.T) {
	fx := newFixture(t)
	parent := fx.addTask(false, nil, nil)
	child := fx.addTask(false, &parent.TaskID, nil)
	grandchild := fx.addTask(false, &child.TaskID, nil)

	_, err := fx.svc.Complete(context.Background(), fx.memberID, parent.TaskID, OneLevel)
	require.NoError(t, err)

	require.True(t, fx.store.tasks[parent.TaskID].IsDone)
	require.True(t, fx.store.tasks[child.TaskID].IsDone)
	require.False(t, fx.store.tasks[grandchild.TaskID].IsDone, "one level must not touch grandchildren")

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 2, tl.CompletedCount)
	require.Equal(t, 1, tl.UncompletedCount)
}

func TestCompleteCascadeRecursive(t *testing.T) {
	fx := newFixture(t)
	parent := fx.addTask(false, nil, nil)
	child := fx.addTask(false, &parent.TaskID, nil)
	grandchild := fx.addTask(false, &child.TaskID, nil)

	_, err := fx.svc.Complete(context.Background(), fx.memberID, parent.TaskID, Recursive)
	require.NoError(t, err)

	require.True(t, fx.store.tasks[grandchild.TaskID].IsDone)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 3, tl.CompletedCount)
	require.Equal(t, 0, tl.UncompletedCount)
}

func TestCompleteNotMember(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	_, err := fx.svc.Complete(context.Background(), uuid.NewString(), tsk.TaskID, OneLevel)
	require.ErrorIs(t, err, ErrNotMember)
}

func TestCompleteMemberOwnTasksOnly(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	mod := fx.store.tasks[tsk.TaskID]
	mod.TaskCreator = fx.managerID
	fx.store.tasks[tsk.TaskID] = mod

	_, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.ErrorIs(t, err, ErrNotTaskOwner)
	require.False(t, fx.store.tasks[tsk.TaskID].IsDone)

	// Managers act on any task in the list.
	got, err := fx.svc.Complete(context.Background(), fx.managerID, tsk.TaskID, OneLevel)
	require.NoError(t, err)
	require.True(t, got.IsDone)

	_, err = fx.svc.UndoComplete(context.Background(), fx.memberID, tsk.TaskID)
	require.ErrorIs(t, err, ErrNotTaskOwner)
	require.True(t, fx.store.tasks[tsk.TaskID].IsDone)
}

func TestCompleteExpiredMembership(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	end := time.Now().Add(-time.Minute)
	mem := fx.store.memberships[memKey(fx.listID, fx.memberID)]
	mem.EndDate = &end
	fx.store.memberships[memKey(fx.listID, fx.memberID)] = mem

	_, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.ErrorIs(t, err, ErrMembershipExpired)
	require.False(t, fx.store.tasks[tsk.TaskID].IsDone)
}

func TestCompleteArchived(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	mod := fx.store.tasks[tsk.TaskID]
	mod.IsArchived = true
	fx.store.tasks[tsk.TaskID] = mod

	_, err := fx.svc.Complete(context.Background(), fx.memberID, tsk.TaskID, OneLevel)
	require.ErrorIs(t, err, ErrTaskArchived)
}

func TestCompleteRollback(t *testing.T) {
	fx := newFixture(t)
	parent := fx.addTask(false, nil, nil)
	child := fx.addTask(false, &parent.TaskID, nil)

	boom := errors.New("write failed")
	fx.store.failSetDone[parent.TaskID] = boom

	_, err := fx.svc.Complete(context.Background(), fx.memberID, parent.TaskID, OneLevel)
	require.ErrorIs(t, err, boom)

	require.False(t, fx.store.tasks[child.TaskID].IsDone, "child completion must roll back with the parent")
	tl := fx.store.lists[fx.listID]
	require.Equal(t, 0, tl.CompletedCount)
	require.Equal(t, 2, tl.UncompletedCount)
}

func TestUndoComplete(t *testing.T) {
	fx := newFixture(t)
	parent := fx.addTask(false, nil, nil)
	child := fx.addTask(false, &parent.TaskID, nil)

	_, err := fx.svc.Complete(context.Background(), fx.memberID, parent.TaskID, OneLevel)
	require.NoError(t, err)

	got, err := fx.svc.UndoComplete(context.Background(), fx.memberID, parent.TaskID)
	require.NoError(t, err)
	require.False(t, got.IsDone)
	require.Nil(t, got.FinishDate)

	require.True(t, fx.store.tasks[child.TaskID].IsDone, "undo touches only the target")

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.CompletedCount)
	require.Equal(t, 1, tl.UncompletedCount)
}

func TestUndoCompleteNoop(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	got, err := fx.svc.UndoComplete(context.Background(), fx.memberID, tsk.TaskID)
	require.NoError(t, err)
	require.False(t, got.IsDone)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.UncompletedCount)
}

func TestCreateRequiresManager(t *testing.T) {
	fx := newFixture(t)

	nt := tasksrepo.CreateTask{Title: "new", TaskType: tasksrepo.TypeGeneral}

	_, err := fx.svc.Create(context.Background(), fx.memberID, fx.listID, nt)
	require.ErrorIs(t, err, ErrNotManager)

	got, err := fx.svc.Create(context.Background(), fx.managerID, fx.listID, nt)
	require.NoError(t, err)
	require.Equal(t, fx.managerID, got.TaskCreator)
	require.Equal(t, fx.listID, got.TaskListID)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.UncompletedCount)
}

func TestCreateCrossListPrerequisite(t *testing.T) {
	fx := newFixture(t)

	otherList := uuid.NewString()
	fx.store.lists[otherList] = tasklistsrepo.TaskList{TaskListID: otherList}
	foreign := tasksrepo.Task{TaskID: uuid.NewString(), TaskListID: otherList}
	fx.store.tasks[foreign.TaskID] = foreign

	nt := tasksrepo.CreateTask{
		Title:              "new",
		TaskType:           tasksrepo.TypeGeneral,
		PrerequisiteTaskID: &foreign.TaskID,
	}

	_, err := fx.svc.Create(context.Background(), fx.managerID, fx.listID, nt)
	require.ErrorIs(t, err, ErrCrossList)
}

func TestArchiveCounters(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	_, err := fx.svc.Archive(context.Background(), fx.managerID, tsk.TaskID)
	require.NoError(t, err)

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 0, tl.UncompletedCount)

	_, err = fx.svc.Unarchive(context.Background(), fx.managerID, tsk.TaskID)
	require.NoError(t, err)

	tl = fx.store.lists[fx.listID]
	require.Equal(t, 1, tl.UncompletedCount)
}

func TestArchiveRequiresManager(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	_, err := fx.svc.Archive(context.Background(), fx.memberID, tsk.TaskID)
	require.ErrorIs(t, err, ErrNotManager)
}

func TestComment(t *testing.T) {
	fx := newFixture(t)
	tsk := fx.addTask(false, nil, nil)

	cmt, err := fx.svc.Comment(context.Background(), fx.memberID, tsk.TaskID, "how did it go?")
	require.NoError(t, err)
	require.Equal(t, fx.memberID, cmt.AuthorID)
	require.Equal(t, tsk.TaskID, cmt.TaskID)

	_, err = fx.svc.Comment(context.Background(), uuid.NewString(), tsk.TaskID, "hi")
	require.ErrorIs(t, err, ErrNotMember)
}

func TestDeleteAdjustsCounters(t *testing.T) {
	fx := newFixture(t)
	open := fx.addTask(false, nil, nil)
	done := fx.addTask(true, nil, nil)

	err := fx.svc.Delete(context.Background(), fx.memberID, open.TaskID)
	require.ErrorIs(t, err, ErrNotManager)

	require.NoError(t, fx.svc.Delete(context.Background(), fx.managerID, open.TaskID))
	require.NoError(t, fx.svc.Delete(context.Background(), fx.managerID, done.TaskID))

	tl := fx.store.lists[fx.listID]
	require.Equal(t, 0, tl.CompletedCount)
	require.Equal(t, 0, tl.UncompletedCount)
}

func TestCreateListGrantsManager(t *testing.T) {
	fx := newFixture(t)
	creatorID := uuid.NewString()

	lst, err := fx.svc.CreateList(context.Background(), creatorID, tasklistsrepo.CreateTaskList{
		PatientID: uuid.NewString(),
		Name:      "chemo week",
	})
	require.NoError(t, err)

	mem, err := fx.svc.AuthorizeManager(context.Background(), lst.TaskListID, creatorID)
	require.NoError(t, err)
	require.Equal(t, tasklistsrepo.PermissionManager, mem.Permission)
}
