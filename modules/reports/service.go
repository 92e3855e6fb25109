package reports

import (
	"context"
	"log"
	"time"

	domain "github.com/example/todo-backend/domain/task"
	"github.com/example/todo-backend/modules/cache"
	"golang.org/x/sync/singleflight"
)

// TaskDirectory is the port to the task store's list operation.
type TaskDirectory interface {
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
}

// AccountDirectory resolves account creation times for the average report.
type AccountDirectory interface {
	AccountCreatedAt(ctx context.Context, userID string) (time.Time, error)
}

// ReportCache is the port to the report cache. A miss is (false, nil).
type ReportCache interface {
	Get(ctx context.Context, userID, report string, dest interface{}) (bool, error)
	Set(ctx context.Context, userID, report string, value interface{}) error
	InvalidateUser(ctx context.Context, userID string) error
}

// Service serves reports cache-aside: check the cache, on miss compute from
// the task store and populate the cache. The cache is an optimization only;
// every report is correct with the cache down, just slower. Concurrent misses
// for the same key are collapsed through singleflight.
type Service struct {
	engine   *Engine
	tasks    TaskDirectory
	accounts AccountDirectory
	cache    ReportCache
	group    singleflight.Group
}

// NewService creates a reports service.
func NewService(engine *Engine, tasks TaskDirectory, accounts AccountDirectory, reportCache ReportCache) *Service {
	return &Service{
		engine:   engine,
		tasks:    tasks,
		accounts: accounts,
		cache:    reportCache,
	}
}

// cacheGet reads a cached report into dest. Cache failures degrade to a miss.
func (s *Service) cacheGet(ctx context.Context, userID, report string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, userID, report, dest)
	if err != nil {
		log.Printf("[reports] cache get failed for %s_%s: %v", userID, report, err)
		return false
	}
	return hit
}

// cacheSet stores a computed report. Failures are logged, never surfaced.
func (s *Service) cacheSet(ctx context.Context, userID, report string, value interface{}) {
	if err := s.cache.Set(ctx, userID, report, value); err != nil {
		log.Printf("[reports] cache set failed for %s_%s: %v", userID, report, err)
	}
}

// TotalTasks reports total, completed and remaining task counts.
func (s *Service) TotalTasks(ctx context.Context, userID string) (TotalTasksReport, error) {
	var report TotalTasksReport
	if s.cacheGet(ctx, userID, cache.ReportTotalTasks, &report) {
		return report, nil
	}

	v, err, _ := s.group.Do(userID+"_"+cache.ReportTotalTasks, func() (interface{}, error) {
		tasks, err := s.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		report := s.engine.TotalTasks(tasks)
		s.cacheSet(ctx, userID, cache.ReportTotalTasks, report)
		return report, nil
	})
	if err != nil {
		return TotalTasksReport{}, err
	}
	return v.(TotalTasksReport), nil
}

// AverageCompleted reports completed tasks per day since account creation.
func (s *Service) AverageCompleted(ctx context.Context, userID string) (AverageCompletedReport, error) {
	var report AverageCompletedReport
	if s.cacheGet(ctx, userID, cache.ReportAverageCompleted, &report) {
		return report, nil
	}

	v, err, _ := s.group.Do(userID+"_"+cache.ReportAverageCompleted, func() (interface{}, error) {
		created, err := s.accounts.AccountCreatedAt(ctx, userID)
		if err != nil {
			return nil, err
		}
		tasks, err := s.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		report := s.engine.AverageCompleted(tasks, created)
		s.cacheSet(ctx, userID, cache.ReportAverageCompleted, report)
		return report, nil
	})
	if err != nil {
		return AverageCompletedReport{}, err
	}
	return v.(AverageCompletedReport), nil
}

// OverdueTasks reports the number of tasks not completed on time.
func (s *Service) OverdueTasks(ctx context.Context, userID string) (OverdueReport, error) {
	var report OverdueReport
	if s.cacheGet(ctx, userID, cache.ReportOverdueTasks, &report) {
		return report, nil
	}

	v, err, _ := s.group.Do(userID+"_"+cache.ReportOverdueTasks, func() (interface{}, error) {
		tasks, err := s.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		report := s.engine.OverdueTasks(tasks)
		s.cacheSet(ctx, userID, cache.ReportOverdueTasks, report)
		return report, nil
	})
	if err != nil {
		return OverdueReport{}, err
	}
	return v.(OverdueReport), nil
}

// MaxDate reports the date on which the most tasks were completed.
func (s *Service) MaxDate(ctx context.Context, userID string) (MaxDateReport, error) {
	var report MaxDateReport
	if s.cacheGet(ctx, userID, cache.ReportMaxDate, &report) {
		return report, nil
	}

	v, err, _ := s.group.Do(userID+"_"+cache.ReportMaxDate, func() (interface{}, error) {
		tasks, err := s.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		report := s.engine.MaxDate(tasks)
		s.cacheSet(ctx, userID, cache.ReportMaxDate, report)
		return report, nil
	})
	if err != nil {
		return MaxDateReport{}, err
	}
	return v.(MaxDateReport), nil
}

// CountOpened reports the weekday histogram of task creation. A nil report
// means the user has no tasks; the null case is never cached, mirroring the
// behavior the API layer exposes as HTTP 200 with a null body.
func (s *Service) CountOpened(ctx context.Context, userID string) (CountOpenedReport, error) {
	var report CountOpenedReport
	if s.cacheGet(ctx, userID, cache.ReportCountOpened, &report) {
		return report, nil
	}

	v, err, _ := s.group.Do(userID+"_"+cache.ReportCountOpened, func() (interface{}, error) {
		tasks, err := s.tasks.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		report := s.engine.CountOpened(tasks)
		if report != nil {
			s.cacheSet(ctx, userID, cache.ReportCountOpened, report)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(CountOpenedReport), nil
}

// SimilarTasks runs the pairwise title similarity scan. Not cached.
func (s *Service) SimilarTasks(ctx context.Context, userID string) ([]SimilarPair, error) {
	tasks, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.SimilarTasks(tasks)
}

// InvalidateUser drops every cached report for the user. Exposed for the
// session-termination path.
func (s *Service) InvalidateUser(ctx context.Context, userID string) error {
	return s.cache.InvalidateUser(ctx, userID)
}
