package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/uma-arai/sbcntr-eventwave/internal/api"
	"github.com/uma-arai/sbcntr-eventwave/internal/common/config"
	"github.com/uma-arai/sbcntr-eventwave/internal/common/database"
	"github.com/uma-arai/sbcntr-eventwave/internal/common/models"
	"github.com/uma-arai/sbcntr-eventwave/internal/common/utils"
	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
	"github.com/uma-arai/sbcntr-eventwave/internal/repository"
	"github.com/uma-arai/sbcntr-eventwave/internal/service/view"
	"github.com/uma-arai/sbcntr-eventwave/internal/session"
)

const userAgent = "sbcntr-eventwave-batch/1.0"

// ErrMissingReviewID はレビューIDの無いレビューを受け取ったことを表します
// 保存時は (event_id, review_id) で重複を判定します
var ErrMissingReviewID = errors.New("review has no review id")

// TaskNotifier はStep Functionsへのタスク成功通知を行います
type TaskNotifier interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
}

// FeedbackSource は主催イベントのレビューを取得します
type FeedbackSource interface {
	AllFeedback(ctx context.Context) ([]model.Review, error)
}

// FeedbackBatchService はフィードバック集計バッチ処理を担当します
type FeedbackBatchService struct {
	db           *database.DB
	feedbackRepo repository.FeedbackRepository
	session      *session.Session
	auth         api.AuthService
	feedback     FeedbackSource
	sfnClient    TaskNotifier
	cfg          *config.Config
	now          func() time.Time
}

// NewFeedbackBatchService は新しいFeedbackBatchServiceを作成します
func NewFeedbackBatchService(cfg *config.Config, sfnClient *sfn.Client) (*FeedbackBatchService, error) {
	db, err := database.NewDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	sess := session.New(session.NewMemoryStore(cfg.Credentials.Token))
	opts := []gateway.Option{
		gateway.WithBypassHeader(cfg.API.BypassHeader, cfg.API.BypassValue),
		gateway.WithUserAgent(userAgent),
	}
	if cfg.EnableTracing {
		opts = append(opts, gateway.WithTracing())
	}
	gw, err := gateway.New(cfg.API.BaseURL, sess, opts...)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	services := api.NewServices(gw, sess)

	s := &FeedbackBatchService{
		db:           db,
		feedbackRepo: repository.NewFeedbackRepository(repository.NewDB(db.DB)),
		session:      sess,
		auth:         services.Auth,
		feedback:     view.NewFlowService(services),
		cfg:          cfg,
		now:          time.Now,
	}
	// nilの*sfn.Clientをインターフェースに入れない
	if sfnClient != nil {
		s.sfnClient = sfnClient
	}
	return s, nil
}

// Close は終了処理を行います
func (s *FeedbackBatchService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Run はフィードバック集計バッチ処理を実行します
func (s *FeedbackBatchService) Run(ctx context.Context) (err error) {
	// X-Rayセグメントの作成
	// トレース無効時は親セグメントが無いため seg は nil になる
	ctx, seg := xray.BeginSubsegment(ctx, "FeedbackBatchService.Run")
	defer func() {
		if seg != nil {
			seg.Close(err)
		}
	}()

	startTime := s.now()
	log.Printf("Starting feedback batch process against %s...", s.cfg.API.BaseURL)

	if err := s.authenticate(ctx); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to authenticate: %w", err))
	}

	reviews, err := s.feedback.AllFeedback(ctx)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to collect feedback: %w", err))
	}

	log.Printf("Found %d reviews", len(reviews))
	addMetadata(seg, "review_count", len(reviews))

	records, err := feedbackRecords(reviews, startTime.UTC())
	if err != nil {
		return utils.GetStackWithError(err)
	}

	inserted, err := s.feedbackRepo.CreateFeedbackRecords(ctx, records)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to store feedback records: %w", err))
	}
	log.Printf("Stored %d new feedback records (%d already stored)", inserted, len(records)-inserted)

	digests := model.NewFeedbackDigests(reviews)
	if err := s.sendTaskSuccess(ctx, digests, len(reviews), inserted); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := s.now().Sub(startTime)

	// セグメントにメタデータを追加
	addMetadata(seg, "duration", duration.String())

	log.Printf("Feedback batch process completed successfully. Duration: %v", duration)
	return nil
}

// feedbackRecords はレビューを保存用のレコードに変換します
// 1件でもレビューIDが無ければ何も保存しません
func feedbackRecords(reviews []model.Review, now time.Time) ([]models.FeedbackRecord, error) {
	records := make([]models.FeedbackRecord, len(reviews))
	for i, review := range reviews {
		if review.ReviewID == 0 {
			return nil, fmt.Errorf("event %d, review by %q: %w", review.EventID, review.UserName, ErrMissingReviewID)
		}
		records[i] = review.ToFeedbackRecord(now)
	}
	return records, nil
}

func addMetadata(seg *xray.Segment, key string, value any) {
	if seg == nil {
		return
	}
	if err := seg.AddMetadata(key, value); err != nil {
		log.Printf("Failed to add %s metadata: %v", key, err)
	}
}

// authenticate はセッションが無い場合に設定の認証情報でログインします
// 集計には主催者アカウントが必要です
func (s *FeedbackBatchService) authenticate(ctx context.Context) error {
	if s.session.Token() == "" {
		if s.cfg.Credentials.Username == "" || s.cfg.Credentials.Password == "" {
			return fmt.Errorf("EVENTWAVE_TOKEN or EVENTWAVE_USERNAME/EVENTWAVE_PASSWORD must be set")
		}

		creds := model.Credentials{
			Username: s.cfg.Credentials.Username,
			Password: s.cfg.Credentials.Password,
		}
		if _, err := s.auth.Login(ctx, creds); err != nil {
			return err
		}
	}

	role, err := s.session.Role()
	if err != nil {
		return fmt.Errorf("failed to read role from token: %w", err)
	}
	if role != model.RoleOrganizer {
		return fmt.Errorf("organizer account is required, got %s", role)
	}
	return nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、ダイジェストを返却します
func (s *FeedbackBatchService) sendTaskSuccess(ctx context.Context, digests []model.FeedbackDigest, total, inserted int) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if os.Getenv("ENV") == "LOCAL" || s.sfnClient == nil {
		log.Printf("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	output, err := json.Marshal(map[string]any{
		"digests":        digests,
		"review_count":   total,
		"inserted_count": inserted,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal digests: %w", err)
	}

	// タスクトークンを設定から取得
	taskToken := s.cfg.SFN.TaskToken
	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	}

	if _, err := s.sfnClient.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	log.Printf("Successfully sent task success with digests: %s", string(output))
	return nil
}
