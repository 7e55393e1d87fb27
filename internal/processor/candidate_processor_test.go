package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/storage/models"
	"resume-extract-go/internal/types"
)

// 测试用的内存组件：全部在内存中记录调用，不触碰任何外部服务

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.text, map[string]interface{}{"source_file_path": filePath}, nil
}

type memStore struct {
	mu        sync.Mutex
	inserted  int
	gotMD5    string
	gotVer    string
	gotName   string
	emails    map[string]bool
	insertErr error
}

func (m *memStore) InsertJobSeekerComplete(ctx context.Context, candidate *types.ParsedCandidate, textMD5, extractorVer string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return "", m.insertErr
	}
	// 模拟邮箱唯一索引：非空邮箱重复时报错，NULL邮箱不参与约束
	if candidate.Email != nil {
		if m.emails == nil {
			m.emails = make(map[string]bool)
		}
		if m.emails[*candidate.Email] {
			return "", errors.New("Duplicate entry for key 'idx_job_seeker_email_unique'")
		}
		m.emails[*candidate.Email] = true
	}
	m.inserted++
	m.gotMD5 = textMD5
	m.gotVer = extractorVer
	if candidate.Name != nil {
		m.gotName = *candidate.Name
	}
	return "test-job-seeker-id", nil
}

func (m *memStore) GetJobSeekerByEmail(ctx context.Context, email string) (*models.JobSeeker, error) {
	return nil, errors.New("not found")
}

type memDedup struct {
	mu          sync.Mutex
	seen        bool
	seenErr     error
	recordedMD5 string
	cachedEmail string
}

func (m *memDedup) IsTextMD5Seen(ctx context.Context, md5Hex string) (bool, error) {
	return m.seen, m.seenErr
}

func (m *memDedup) RecordTextMD5(ctx context.Context, md5Hex string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordedMD5 = md5Hex
	return nil
}

func (m *memDedup) CacheEmailIndex(ctx context.Context, email, jobSeekerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachedEmail = email
	return nil
}

type memArchive struct {
	mu            sync.Mutex
	originalCalls int
	rawTextCalls  int
}

func (m *memArchive) UploadOriginalFile(ctx context.Context, jobSeekerID, fileName string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.originalCalls++
	return "candidate/" + jobSeekerID + "/original.pdf", nil
}

func (m *memArchive) UploadRawText(ctx context.Context, jobSeekerID, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawTextCalls++
	return "candidate/" + jobSeekerID + "/raw_text.txt", nil
}

type memEvents struct {
	mu        sync.Mutex
	published []*storage.CandidateParsedMessage
}

func (m *memEvents) PublishCandidateParsed(ctx context.Context, msg *storage.CandidateParsedMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, msg)
	return nil
}

const sampleResumeText = "Jane Doe\njane.doe@email.com\n(555) 987-6543\n\n" +
	"Experience: 7 years of experience\n\n" +
	"Work History:\nAmazing Company Inc, 2018 - Present\n\n" +
	"Skills: Python, Django, PostgreSQL"

// writeTempResume 在临时目录创建一个占位PDF文件，返回其路径
func writeTempResume(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 placeholder"), 0644))
	return path
}

// TestProcessFileDryRun dry-run只解析不落库
func TestProcessFileDryRun(t *testing.T) {
	store := &memStore{}
	proc := NewCandidateProcessor(
		[]ComponentOpt{
			WithcompExtractor(&stubExtractor{text: sampleResumeText}),
			WithcompStore(store),
		},
		WithsetDryrun(true),
	)

	result, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotNil(t, result.Candidate.Name)
	assert.Equal(t, "Jane Doe", *result.Candidate.Name)
	assert.InDelta(t, 7.0, result.Candidate.TotalExperienceYears, 0.001)
	assert.Empty(t, result.JobSeekerID, "dry-run不应产生候选人ID")
	assert.Zero(t, store.inserted, "dry-run不应触发入库")
}

// TestProcessFileSkipsWithoutNameAndEmail 无姓名也无邮箱的简历跳过入库
func TestProcessFileSkipsWithoutNameAndEmail(t *testing.T) {
	store := &memStore{}
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: "just some plain text"}),
		WithcompStore(store),
	})

	result, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, "no name or email extracted", result.SkipReason)
	assert.Zero(t, store.inserted)
}

// TestProcessFileExtractorErrorYieldsDefaultRecord 提取失败折叠为空文本，产出默认记录后跳过
func TestProcessFileExtractorErrorYieldsDefaultRecord(t *testing.T) {
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{err: errors.New("corrupt pdf")}),
		WithcompStore(&memStore{}),
	})

	result, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.NoError(t, err, "提取失败不应作为错误向上传播")

	assert.Nil(t, result.Candidate.Name)
	assert.Empty(t, result.Candidate.Skills)
	assert.True(t, result.Skipped, "默认记录无姓名无邮箱，应被跳过")
}

// TestProcessFileFullFlow 完整流程：入库、去重记录、归档、事件发布
func TestProcessFileFullFlow(t *testing.T) {
	store := &memStore{}
	dedup := &memDedup{}
	archive := &memArchive{}
	events := &memEvents{}

	proc := NewCandidateProcessor(
		[]ComponentOpt{
			WithcompExtractor(&stubExtractor{text: sampleResumeText}),
			WithcompStore(store),
			WithcompDedup(dedup),
			WithcompArchive(archive),
			WithcompEvents(events),
		},
		WithsetExtractorversion("1.0"),
	)

	filePath := writeTempResume(t, "jane.pdf")
	result, err := proc.ProcessFile(context.Background(), filePath)
	require.NoError(t, err)

	assert.Equal(t, "test-job-seeker-id", result.JobSeekerID)
	assert.Equal(t, 1, store.inserted)
	assert.Equal(t, "1.0", store.gotVer)
	assert.Equal(t, "Jane Doe", store.gotName)
	assert.NotEmpty(t, store.gotMD5)

	assert.Equal(t, store.gotMD5, dedup.recordedMD5, "入库后应记录原文MD5")
	assert.Equal(t, "jane.doe@email.com", dedup.cachedEmail, "入库后应缓存邮箱索引")

	assert.Equal(t, 1, archive.originalCalls, "应归档原始文件")
	assert.Equal(t, 1, archive.rawTextCalls, "应归档解析原文")
	assert.Equal(t, "candidate/test-job-seeker-id/raw_text.txt", result.RawTextPathOSS)

	require.Len(t, events.published, 1, "应发布解析完成事件")
	msg := events.published[0]
	assert.Equal(t, "test-job-seeker-id", msg.JobSeekerID)
	assert.Equal(t, "Jane Doe", msg.Name)
	assert.Equal(t, "jane.doe@email.com", msg.Email)
	assert.InDelta(t, 7.0, msg.TotalExperience, 0.001)
	assert.Equal(t, 1, msg.CompanyCount)
}

// TestProcessFileDuplicateSkipped 原文MD5已见过的简历跳过入库
func TestProcessFileDuplicateSkipped(t *testing.T) {
	store := &memStore{}
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: sampleResumeText}),
		WithcompStore(store),
		WithcompDedup(&memDedup{seen: true}),
	})

	result, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, "duplicate resume text", result.SkipReason)
	assert.Zero(t, store.inserted)
}

// TestProcessFileDedupCacheErrorContinues 去重缓存故障时照常入库
func TestProcessFileDedupCacheErrorContinues(t *testing.T) {
	store := &memStore{}
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: sampleResumeText}),
		WithcompStore(store),
		WithcompDedup(&memDedup{seenErr: errors.New("redis down")}),
	})

	result, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.NoError(t, err, "缓存故障不应中断处理")

	assert.False(t, result.Skipped)
	assert.Equal(t, 1, store.inserted, "缓存不可用时应继续入库")
}

// TestProcessFileDatabaseError 入库失败返回数据库错误
func TestProcessFileDatabaseError(t *testing.T) {
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: sampleResumeText}),
		WithcompStore(&memStore{insertErr: errors.New("connection refused")}),
	})

	_, err := proc.ProcessFile(context.Background(), "/nonexistent/resume.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabaseFailed), "错误应能匹配到ErrDatabaseFailed")
}

// TestProcessFileNameOnlyCandidatesBothInserted 多份只有姓名没有邮箱的简历都应成功入库
// 邮箱列允许NULL，唯一索引不会把第二条无邮箱记录判成重复
func TestProcessFileNameOnlyCandidatesBothInserted(t *testing.T) {
	store := &memStore{}
	texts := map[string]string{
		"/resumes/first.pdf":  "John Smith\nSoftware Engineer at a small shop",
		"/resumes/second.pdf": "Mary Jones\nData Analyst looking for new roles",
	}

	for path, text := range texts {
		proc := NewCandidateProcessor([]ComponentOpt{
			WithcompExtractor(&stubExtractor{text: text}),
			WithcompStore(store),
		})

		result, err := proc.ProcessFile(context.Background(), path)
		require.NoError(t, err, "无邮箱简历不应触发插入错误: %s", path)
		assert.False(t, result.Skipped, "有姓名的简历不应被跳过")
		assert.Nil(t, result.Candidate.Email)
		require.NotNil(t, result.Candidate.Name)
	}

	assert.Equal(t, 2, store.inserted, "两条无邮箱记录都应入库")
}

// TestProcessFolder 批量处理：只挑PDF文件，结果按文件名排序
func TestProcessFolder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"beta.pdf", "alpha.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("placeholder"), 0644))
	}

	proc := NewCandidateProcessor(
		[]ComponentOpt{
			WithcompExtractor(&stubExtractor{text: sampleResumeText}),
		},
		WithsetDryrun(true),
		WithsetWorkers(2),
	)

	results, err := proc.ProcessFolder(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2, "只应处理PDF文件")

	assert.Equal(t, filepath.Join(dir, "alpha.pdf"), results[0].FilePath, "结果应按文件名排序")
	assert.Equal(t, filepath.Join(dir, "beta.pdf"), results[1].FilePath)
	for _, result := range results {
		require.NotNil(t, result.Candidate)
		require.NotNil(t, result.Candidate.Name)
		assert.Equal(t, "Jane Doe", *result.Candidate.Name)
	}
}

// TestProcessFolderMissing 目录不存在时返回可识别的错误
func TestProcessFolderMissing(t *testing.T) {
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: sampleResumeText}),
	})

	_, err := proc.ProcessFolder(context.Background(), "/definitely/not/a/folder")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFolderNotFound))
}

// TestProcessFolderEmpty 空目录返回空结果且无错误
func TestProcessFolderEmpty(t *testing.T) {
	proc := NewCandidateProcessor([]ComponentOpt{
		WithcompExtractor(&stubExtractor{text: sampleResumeText}),
	})

	results, err := proc.ProcessFolder(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, results)
}
