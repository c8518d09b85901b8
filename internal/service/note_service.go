// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/haierkeys/microdoc-service/internal/domain"
	"github.com/haierkeys/microdoc-service/internal/dto"
	"github.com/haierkeys/microdoc-service/pkg/code"
	"github.com/haierkeys/microdoc-service/pkg/convert"
	"github.com/haierkeys/microdoc-service/pkg/diff"
	"github.com/haierkeys/microdoc-service/pkg/logger"
	"github.com/haierkeys/microdoc-service/pkg/timex"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记，返回分配的地址
	Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteCreateResponse, error)

	// Get 读取笔记
	Get(ctx context.Context, slug string, cred Credential) (*dto.NoteView, error)

	// Update 更新笔记，内容变化时追加历史
	Update(ctx context.Context, slug string, params *dto.NoteUpdateRequest, cred Credential) (*dto.NoteUpdateResponse, error)

	// Restore 以历史版本内容执行一次更新
	Restore(ctx context.Context, slug string, params *dto.NoteRestoreRequest, cred Credential) (*dto.NoteUpdateResponse, error)

	// History 获取历史，旧的在前
	History(ctx context.Context, slug string, cred Credential) (*dto.NoteHistoryView, error)

	// Diff 对比两个历史版本，或历史版本与当前内容
	Diff(ctx context.Context, slug string, params *dto.NoteDiffRequest, cred Credential) (*dto.NoteDiffView, error)

	// Render 渲染为安全的 HTML
	Render(ctx context.Context, slug string, cred Credential) ([]byte, error)

	// Unlock 校验密码并签发解锁令牌
	Unlock(ctx context.Context, slug string, params *dto.NoteUnlockRequest) (*dto.NoteUnlockResponse, error)

	// PurgeExpired 物理删除过期超过保留时长的笔记
	PurgeExpired(ctx context.Context) (int64, error)
}

// Clock returns the current time; tests drive expiry through it.
type Clock func() time.Time

// NoteServiceDeps 笔记服务依赖
type NoteServiceDeps struct {
	Repo      domain.NoteRepository
	Slugs     SlugAllocator
	Gate      *AccessGate
	Policy    ContentPolicy
	Logger    *zap.Logger
	Clock     Clock
	Config    *ServiceConfig
	Revisions RevisionLog
}

// noteService 实现 NoteService 接口
type noteService struct {
	repo      domain.NoteRepository
	slugs     SlugAllocator
	gate      *AccessGate
	policy    ContentPolicy
	revisions RevisionLog
	logger    *zap.Logger
	now       Clock
	config    *ServiceConfig
	sf        *singleflight.Group
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(deps NoteServiceDeps) NoteService {
	cfg := deps.Config.withDefaults()
	s := &noteService{
		repo:      deps.Repo,
		slugs:     deps.Slugs,
		gate:      deps.Gate,
		policy:    deps.Policy,
		revisions: deps.Revisions,
		logger:    deps.Logger,
		now:       deps.Clock,
		config:    cfg,
		sf:        &singleflight.Group{},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.slugs == nil {
		s.slugs = NewSlugAllocator(s.repo, cfg)
	}
	if s.gate == nil {
		s.gate = NewAccessGate(NewBcryptHasher(cfg.Note.PasswordCost), nil)
	}
	if s.policy == nil {
		s.policy = NewContentPolicy(cfg.Note.OffensiveWords, cfg.Note.AllowWords)
	}
	return s
}

// clock 统一为 UTC 毫秒精度，与对外时间格式一致
func (s *noteService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// validate 校验标题与内容
func (s *noteService) validate(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return code.ErrorNoteTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return code.ErrorNoteContentRequired
	}
	if !utf8.ValidString(title) || !utf8.ValidString(content) {
		return code.ErrorInvalidParams.WithDetails("title and content must be valid UTF-8")
	}
	if limit := s.config.Note.MaxContentSize; limit > 0 && int64(len(content)) > limit {
		return code.ErrorNoteContentTooLarge
	}
	if s.policy.IsOffensive(title + "\n" + content) {
		return code.ErrorOffensiveContent
	}
	return nil
}

// load fetches a live note; absent and expired notes are indistinguishable.
// load 获取未过期的笔记
func (s *noteService) load(ctx context.Context, slug string, withHistory bool, now time.Time) (*domain.Note, error) {
	var (
		note *domain.Note
		err  error
	)
	if withHistory {
		note, err = s.repo.GetBySlugWithHistory(ctx, slug)
	} else {
		// 合并后的查询不受单个调用方取消影响
		v, e, _ := s.sf.Do("note:"+slug, func() (interface{}, error) {
			fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Note.ReadTimeout)
			defer cancel()
			return s.repo.GetBySlug(fetchCtx, slug)
		})
		err = e
		if e == nil {
			// singleflight 共享结果，复制一份避免调用方互相影响
			shared := *v.(*domain.Note)
			note = &shared
		}
	}

	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, s.dbError(ctx, "NoteService.load", slug, err)
	}
	if note.IsExpired(now) {
		return nil, code.ErrorNoteNotFound
	}
	return note, nil
}

func (s *noteService) dbError(ctx context.Context, method, slug string, err error) error {
	s.logger.Error("note store failed",
		zap.String(logger.FieldMethod, method),
		zap.String(logger.FieldSlug, slug),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return code.ErrorRequestTimeout
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, params *dto.NoteCreateRequest) (resp *dto.NoteCreateResponse, err error) {
	defer func() { observe("create", err) }()

	if err := s.validate(params.Title, params.Content); err != nil {
		return nil, err
	}

	now := s.clock()

	var expiresAt *time.Time
	if params.ExpiresAt != nil {
		t := params.ExpiresAt.Std().UTC()
		if !t.After(now) {
			return nil, code.ErrorExpiresAtNotFuture
		}
		expiresAt = &t
	}

	var digest string
	if params.Password != "" {
		if digest, err = s.gate.Digest(params.Password); err != nil {
			return nil, err
		}
	}

	proposed := params.CustomSlug
	if strings.TrimSpace(proposed) == "" {
		proposed = params.Title
	}

	note := &domain.Note{
		Title:            params.Title,
		Content:          params.Content,
		CredentialDigest: digest,
		ExpiresAt:        expiresAt,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
		History:          []domain.Revision{{Content: params.Content, Timestamp: now}},
	}

	// 检查与插入之间可能被抢占，唯一索引冲突时重新分配一次
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := s.slugs.Allocate(ctx, proposed)
		if err != nil {
			var c *code.Code
			if errors.As(err, &c) {
				return nil, err
			}
			return nil, s.dbError(ctx, "NoteService.Create", proposed, err)
		}

		note.Slug = slug
		created, err := s.repo.Insert(ctx, note)
		if err == nil {
			s.logger.Info("note created",
				zap.String(logger.FieldSlug, created.Slug),
				zap.Bool("protected", created.IsProtected()),
			)
			return &dto.NoteCreateResponse{Slug: created.Slug}, nil
		}
		if !errors.Is(err, domain.ErrSlugConflict) {
			return nil, s.dbError(ctx, "NoteService.Create", slug, err)
		}
		s.logger.Warn("slug taken between check and insert", zap.String(logger.FieldSlug, slug))
	}

	return nil, code.ErrorDBQuery.WithDetails("slug conflict")
}

// Get 读取笔记
func (s *noteService) Get(ctx context.Context, slug string, cred Credential) (view *dto.NoteView, err error) {
	defer func() { observe("read", err) }()

	note, err := s.load(ctx, slug, false, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}
	return s.toView(note)
}

func (s *noteService) toView(note *domain.Note) (*dto.NoteView, error) {
	view, err := convert.StructAssign(note, &dto.NoteView{})
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	view.IsProtected = note.IsProtected()
	view.CreatedAt = timex.Time(note.CreatedAt)
	view.UpdatedAt = timex.Time(note.UpdatedAt)
	view.ExpiresAt = timex.Ptr(note.ExpiresAt)
	return view, nil
}

// noteChange 一次更新的输入
type noteChange struct {
	title           string
	content         string
	digest          *string
	expiresAt       domain.ExpiresAtDirective
	expectedVersion int64
}

// Update 更新笔记
func (s *noteService) Update(ctx context.Context, slug string, params *dto.NoteUpdateRequest, cred Credential) (resp *dto.NoteUpdateResponse, err error) {
	defer func() { observe("update", err) }()

	if err := s.validate(params.Title, params.Content); err != nil {
		return nil, err
	}

	now := s.clock()

	note, err := s.load(ctx, slug, false, now)
	if err != nil {
		return nil, err
	}

	if params.CurrentPassword != "" {
		cred.Secret = params.CurrentPassword
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}

	var directive domain.ExpiresAtDirective
	if params.ExpiresAt.Present {
		if params.ExpiresAt.Valid {
			t := params.ExpiresAt.Std().UTC()
			if !t.After(now) {
				return nil, code.ErrorExpiresAtNotFuture
			}
			directive = domain.ExpiresAtDirective{Set: true, Value: t}
		} else {
			directive = domain.ExpiresAtDirective{Clear: true}
		}
	}

	change := noteChange{
		title:           params.Title,
		content:         params.Content,
		expiresAt:       directive,
		expectedVersion: params.ExpectedVersion,
	}
	if params.NewPassword != "" {
		digest, err := s.gate.Digest(params.NewPassword)
		if err != nil {
			return nil, err
		}
		change.digest = &digest
	}

	return s.apply(ctx, note, change, now)
}

// Restore 恢复历史版本：以该版本内容和当前标题执行一次更新，历史只增不减
func (s *noteService) Restore(ctx context.Context, slug string, params *dto.NoteRestoreRequest, cred Credential) (resp *dto.NoteUpdateResponse, err error) {
	defer func() { observe("restore", err) }()

	now := s.clock()

	note, err := s.load(ctx, slug, true, now)
	if err != nil {
		return nil, err
	}

	if params.CurrentPassword != "" {
		cred.Secret = params.CurrentPassword
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}

	index := 0
	if params.Revision != nil {
		index = *params.Revision
	}
	rev, err := s.revisions.At(note, index)
	if err != nil {
		return nil, err
	}

	if err := s.validate(note.Title, rev.Content); err != nil {
		return nil, err
	}

	s.logger.Info("restoring revision", zap.String(logger.FieldSlug, slug), zap.Int(logger.FieldRevision, index))

	return s.apply(ctx, note, noteChange{
		title:           note.Title,
		content:         rev.Content,
		expectedVersion: params.ExpectedVersion,
	}, now)
}

// apply builds the tagged update and hands it to the store in one call.
// apply 构造更新请求并提交
func (s *noteService) apply(ctx context.Context, note *domain.Note, change noteChange, now time.Time) (*dto.NoteUpdateResponse, error) {
	update := &domain.NoteUpdate{
		Title:            change.title,
		Content:          change.content,
		UpdatedAt:        now,
		CredentialDigest: change.digest,
		ExpiresAt:        change.expiresAt,
		ExpectedVersion:  change.expectedVersion,
	}
	if s.revisions.ShouldAppend(note.Content, change.content) {
		update.AppendRevision = s.revisions.Append(note, change.content, now)
	}

	if err := update.Validate(); err != nil {
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	}

	matched, _, err := s.repo.UpdateBySlug(ctx, note.Slug, update)
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		return nil, code.ErrorNoteVersionConflict
	case errors.Is(err, domain.ErrInvalidUpdate):
		return nil, code.ErrorInvalidParams.WithDetails(err.Error())
	case err != nil:
		return nil, s.dbError(ctx, "NoteService.apply", note.Slug, err)
	case matched == 0:
		// 读取之后过期或被清理
		return nil, code.ErrorNoteNotFound
	}

	s.sf.Forget("note:" + note.Slug)

	return &dto.NoteUpdateResponse{
		Slug:             note.Slug,
		Version:          note.Version + 1,
		UpdatedAt:        timex.Time(now),
		RevisionAppended: update.AppendRevision != nil,
	}, nil
}

// History 获取历史
func (s *noteService) History(ctx context.Context, slug string, cred Credential) (view *dto.NoteHistoryView, err error) {
	defer func() { observe("history", err) }()

	note, err := s.load(ctx, slug, true, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}

	revisions := s.revisions.List(note)
	view = &dto.NoteHistoryView{
		Title:       note.Title,
		IsProtected: note.IsProtected(),
		History:     make([]dto.RevisionView, 0, len(revisions)),
	}
	for i, rev := range revisions {
		view.History = append(view.History, dto.RevisionView{
			Index:     i,
			Content:   rev.Content,
			Timestamp: timex.Time(rev.Timestamp),
		})
	}
	return view, nil
}

// Diff 对比差异
func (s *noteService) Diff(ctx context.Context, slug string, params *dto.NoteDiffRequest, cred Credential) (view *dto.NoteDiffView, err error) {
	defer func() { observe("diff", err) }()

	note, err := s.load(ctx, slug, true, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}

	fromIndex := 0
	if params.From != nil {
		fromIndex = *params.From
	}
	from, err := s.revisions.At(note, fromIndex)
	if err != nil {
		return nil, err
	}

	toIndex := -1
	if params.To != nil {
		toIndex = *params.To
	}
	toText := note.Content
	if toIndex >= 0 {
		to, err := s.revisions.At(note, toIndex)
		if err != nil {
			return nil, err
		}
		toText = to.Content
	}

	mode := params.Mode
	if mode == "" {
		mode = dto.DiffModeChar
	}
	var segments []diff.Segment
	if mode == dto.DiffModeLine {
		segments = diff.DiffLines(from.Content, toText)
	} else {
		segments = diff.Diff(from.Content, toText)
	}
	return &dto.NoteDiffView{
		From:     fromIndex,
		To:       toIndex,
		Mode:     mode,
		Segments: segments,
		Stat:     diff.Stats(segments),
	}, nil
}

// Render 渲染 HTML
func (s *noteService) Render(ctx context.Context, slug string, cred Credential) (out []byte, err error) {
	defer func() { observe("render", err) }()

	note, err := s.load(ctx, slug, false, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(note, cred); err != nil {
		return nil, err
	}
	return RenderMarkdown(note.Content), nil
}

// Unlock 签发解锁令牌
func (s *noteService) Unlock(ctx context.Context, slug string, params *dto.NoteUnlockRequest) (resp *dto.NoteUnlockResponse, err error) {
	defer func() { observe("unlock", err) }()

	note, err := s.load(ctx, slug, false, s.clock())
	if err != nil {
		return nil, err
	}
	if !note.IsProtected() {
		return nil, code.ErrorInvalidParams.WithDetails("note is not protected")
	}
	if err := s.gate.Authorize(note, Credential{Secret: params.Password}); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.gate.Issue(note)
	if err != nil {
		return nil, err
	}
	return &dto.NoteUnlockResponse{Token: token, ExpiresAt: timex.Time(expiresAt)}, nil
}

// PurgeExpired 清理过期笔记
func (s *noteService) PurgeExpired(ctx context.Context) (int64, error) {
	retention := s.config.Cleanup.PurgeExpiredAfter
	if retention <= 0 {
		return 0, nil
	}

	purged, err := s.repo.PurgeExpired(ctx, s.clock().Add(-retention))
	if err != nil {
		return 0, s.dbError(ctx, "NoteService.PurgeExpired", "", err)
	}
	notesPurged.Add(float64(purged))
	return purged, nil
}
