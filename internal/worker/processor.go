package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/oss"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/pubsub"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/queue"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

// Processor 音乐生成任务处理器
type Processor struct {
	workRepo  *repository.WorkRepository
	engine    Engine
	ossClient *oss.Client
	publisher *pubsub.Publisher
}

// NewProcessor 创建任务处理器。ossClient 为 nil 时音频落到本地目录。
func NewProcessor(
	workRepo *repository.WorkRepository,
	engine Engine,
	ossClient *oss.Client,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		workRepo:  workRepo,
		engine:    engine,
		ossClient: ossClient,
		publisher: publisher,
	}
}

// Process 处理生成任务：composing -> rendering -> uploading -> done。
// 任务失败不退还配额，创建时的消耗视为已发生。
func (p *Processor) Process(ctx context.Context, msg *queue.GenerateMessage) error {
	work, err := p.workRepo.GetByID(msg.WorkID)
	if err != nil {
		return fmt.Errorf("failed to get work: %w", err)
	}
	if work.Status != model.WorkPending {
		// 消息重复投递，任务已被处理过
		log.Printf("work %d already in status %s, skipping", work.ID, work.Status)
		return nil
	}

	if err := p.workRepo.MarkProcessing(work.ID); err != nil {
		return fmt.Errorf("failed to mark work processing: %w", err)
	}

	publishProgress := func(step, status, errMsg string) {
		if err := p.publisher.PublishProgress(ctx, &pubsub.Event{
			UserID: msg.UserID,
			WorkID: msg.WorkID,
			Status: status,
			Step:   step,
			Error:  errMsg,
		}); err != nil {
			log.Printf("work %d: failed to publish progress: %v", msg.WorkID, err)
		}
	}

	handleError := func(step string, err error) error {
		if markErr := p.workRepo.MarkFailed(work.ID, err.Error()); markErr != nil {
			log.Printf("work %d: failed to mark failed: %v", work.ID, markErr)
		}
		publishProgress(step, model.WorkFailed, err.Error())
		return err
	}

	log.Printf("work %d: composing, style=%s duration=%ds", work.ID, msg.Style, msg.DurationSec)
	publishProgress(pubsub.StepComposing, model.WorkProcessing, "")

	audio, err := p.engine.Generate(ctx, &GenerateRequest{
		Prompt:      msg.Prompt,
		Style:       msg.Style,
		DurationSec: msg.DurationSec,
	})
	if err != nil {
		return handleError(pubsub.StepComposing, fmt.Errorf("generate failed: %w", err))
	}

	publishProgress(pubsub.StepRendering, model.WorkProcessing, "")

	log.Printf("work %d: uploading %d bytes", work.ID, len(audio))
	publishProgress(pubsub.StepUploading, model.WorkProcessing, "")

	var audioURL string
	if p.ossClient != nil {
		audioURL, err = p.ossClient.UploadAudio(work.ID, audio)
		if err != nil {
			return handleError(pubsub.StepUploading, fmt.Errorf("failed to upload audio: %w", err))
		}
	} else {
		// 未配置 OSS 时保存到本地，URL 用 local:// 前缀标记
		localDir := filepath.Join(os.TempDir(), "lingxi_audio")
		if err := os.MkdirAll(localDir, 0755); err != nil {
			return handleError(pubsub.StepUploading, fmt.Errorf("failed to create audio dir: %w", err))
		}
		localPath := filepath.Join(localDir, fmt.Sprintf("%d.mp3", work.ID))
		if err := os.WriteFile(localPath, audio, 0644); err != nil {
			return handleError(pubsub.StepUploading, fmt.Errorf("failed to save audio locally: %w", err))
		}
		audioURL = fmt.Sprintf("local://%d", work.ID)
		log.Printf("work %d: saved audio locally (OSS not configured)", work.ID)
	}

	if err := p.workRepo.MarkCompleted(work.ID, audioURL); err != nil {
		return handleError(pubsub.StepDone, fmt.Errorf("failed to mark completed: %w", err))
	}

	publishProgress(pubsub.StepDone, model.WorkCompleted, "")
	log.Printf("work %d: completed", work.ID)

	return nil
}
