package tasksrepobridge

import (
	"context"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Task bridge.
type Config struct {
	Log        *logger.Logger
	Repository *tasksrepo.Repository
	Comments   *commentsrepo.Repository
	Service    *taskservice.Service
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Task.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository, cfg.Comments, cfg.Service)

	group.GET("/task-lists/{task_list_id}/tasks", b.httpList, cfg.Middleware...)
	group.POST("/task-lists/{task_list_id}/tasks", b.httpCreate, cfg.Middleware...)
	group.GET("/tasks/{task_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/tasks/{task_id}", b.httpDelete, cfg.Middleware...)

	group.POST("/tasks/{task_id}/complete", b.httpComplete, cfg.Middleware...)
	group.POST("/tasks/{task_id}/undo-complete", b.httpUndoComplete, cfg.Middleware...)
	group.POST("/tasks/{task_id}/archive", b.httpArchive, cfg.Middleware...)
	group.POST("/tasks/{task_id}/unarchive", b.httpUnarchive, cfg.Middleware...)

	group.GET("/tasks/{task_id}/details", b.httpGetDetails, cfg.Middleware...)
	group.GET("/tasks/{task_id}/comments", b.httpListComments, cfg.Middleware...)
	group.POST("/tasks/{task_id}/comments", b.httpCreateComment, cfg.Middleware...)
	group.GET("/tasks/{task_id}/tags", b.httpListTags, cfg.Middleware...)
	group.POST("/tasks/{task_id}/tags", b.httpAddTag, cfg.Middleware...)
	group.DELETE("/tasks/{task_id}/tags/{name}", b.httpRemoveTag, cfg.Middleware...)
	group.GET("/tasks/{task_id}/schedules", b.httpListSchedules, cfg.Middleware...)
	group.PUT("/tasks/{task_id}/schedules/{schedule_id}", b.httpMarkScheduleTaken, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeMember(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return taskErr(err)
	}

	qp := parseQueryParams(r)

	filter, err := parseFilter(qp)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}
	filter.TaskListID = &taskListID

	page, err := parsePage(qp)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	direction, err := parseDirection(qp.Order)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tasks, nextCursor, err := b.taskRepository.Query(ctx, filter, direction, page)
	if err != nil {
		return errs.Newf(errs.Internal, "query tasks list[%s]: %s", taskListID, err)
	}

	return fopbridge.NewPaginatedResponse(tasks, page, nextCursor)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	var nt tasksrepo.CreateTask
	if err := web.Decode(r, &nt); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	task, err := b.taskService.Create(ctx, mid.GetUserID(ctx), taskListID, nt)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if _, err := b.managerTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	var ut tasksrepo.UpdateTask
	if err := web.Decode(r, &ut); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	task, err := b.taskRepository.Update(ctx, taskID, ut)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if err := b.taskService.Delete(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	return nil
}

func (b *bridge) httpComplete(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	policy := taskservice.OneLevel
	switch web.QueryParam(r, "cascade") {
	case "", "one_level":
	case "recursive":
		policy = taskservice.Recursive
	default:
		return errs.Newf(errs.InvalidArgument, "invalid cascade: %s", web.QueryParam(r, "cascade"))
	}

	task, err := b.taskService.Complete(ctx, mid.GetUserID(ctx), taskID, policy)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpUndoComplete(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.taskService.UndoComplete(ctx, mid.GetUserID(ctx), taskID)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpArchive(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.taskService.Archive(ctx, mid.GetUserID(ctx), taskID)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpUnarchive(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.taskService.Unarchive(ctx, mid.GetUserID(ctx), taskID)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(task)
}

func (b *bridge) httpGetDetails(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	task, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID)
	if err != nil {
		return taskErr(err)
	}

	details, err := b.taskRepository.QueryDetails(ctx, taskID, task.TaskType)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(details)
}

func (b *bridge) httpListComments(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if _, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	comments, err := b.commentRepository.QueryByTask(ctx, taskID)
	if err != nil {
		return errs.Newf(errs.Internal, "query comments task[%s]: %s", taskID, err)
	}

	return fopbridge.NewRecordsResponse(comments)
}

func (b *bridge) httpCreateComment(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	var body struct {
		Content string `json:"content"`
	}
	if err := web.Decode(r, &body); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	comment, err := b.taskService.Comment(ctx, mid.GetUserID(ctx), taskID, body.Content)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(comment)
}

func (b *bridge) httpListTags(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if _, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	tags, err := b.taskRepository.QueryTags(ctx, taskID)
	if err != nil {
		return errs.Newf(errs.Internal, "query tags task[%s]: %s", taskID, err)
	}

	return fopbridge.NewRecordsResponse(tags)
}

func (b *bridge) httpAddTag(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if _, err := b.managerTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := web.Decode(r, &body); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tag, err := b.taskRepository.AddTag(ctx, taskID, body.Name)
	if err != nil {
		return taskErr(err)
	}

	return fopbridge.NewRecordResponse(tag)
}

func (b *bridge) httpRemoveTag(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")
	name := web.Param(r, "name")

	if _, err := b.managerTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	if err := b.taskRepository.RemoveTag(ctx, taskID, name); err != nil {
		return taskErr(err)
	}

	return nil
}

func (b *bridge) httpListSchedules(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")

	if _, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	schedules, err := b.taskRepository.QuerySchedules(ctx, taskID)
	if err != nil {
		return errs.Newf(errs.Internal, "query schedules task[%s]: %s", taskID, err)
	}

	return fopbridge.NewRecordsResponse(schedules)
}

func (b *bridge) httpMarkScheduleTaken(ctx context.Context, r *http.Request) web.Encoder {
	taskID := web.Param(r, "task_id")
	scheduleID := web.Param(r, "schedule_id")

	if _, err := b.memberTask(ctx, mid.GetUserID(ctx), taskID); err != nil {
		return taskErr(err)
	}

	// The schedule must belong to the task named in the path.
	schedules, err := b.taskRepository.QuerySchedules(ctx, taskID)
	if err != nil {
		return errs.Newf(errs.Internal, "query schedules task[%s]: %s", taskID, err)
	}
	found := false
	for _, sch := range schedules {
		if sch.ScheduleID == scheduleID {
			found = true
			break
		}
	}
	if !found {
		return errs.Newf(errs.NotFound, "schedule %s not found on task %s", scheduleID, taskID)
	}

	var body struct {
		Taken bool `json:"taken"`
	}
	if err := web.Decode(r, &body); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if err := b.taskRepository.MarkScheduleTaken(ctx, scheduleID, body.Taken); err != nil {
		return taskErr(err)
	}

	return nil
}
