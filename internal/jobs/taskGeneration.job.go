package jobs

import (
	"context"

	"roomflow/internal/clock"
	"roomflow/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// TaskGenerationJob runs the task generator every night for the hotel-local
// current date, so the day's cleaning board is populated before the morning
// shift.
type TaskGenerationJob struct {
	generator *services.GeneratorService
	clock     clock.Clock
	log       logger.Logger
	schedule  services.Schedule
}

func NewTaskGenerationJob(
	generator *services.GeneratorService,
	clk clock.Clock,
	schedule services.Schedule,
) *TaskGenerationJob {
	log := logger.New("taskGenerationJob")
	log.Info("Creating new task generation job", "schedule", schedule)

	return &TaskGenerationJob{
		generator: generator,
		clock:     clk,
		log:       log,
		schedule:  schedule,
	}
}

func (j *TaskGenerationJob) Name() string {
	return "NightlyTaskGeneration"
}

func (j *TaskGenerationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	today := j.clock.Today()
	summary, err := j.generator.Generate(ctx, today, nil)
	if err != nil {
		return log.Err("scheduled task generation failed", err)
	}

	log.Info("Scheduled task generation completed",
		"date", summary.Date.Format("2006-01-02"),
		"created", len(summary.Created),
		"skipped", summary.Skipped)
	return nil
}

func (j *TaskGenerationJob) Schedule() services.Schedule {
	return j.schedule
}
