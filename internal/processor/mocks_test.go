package processor

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-aids-go/internal/storage"
	"resume-aids-go/internal/storage/models"
	"resume-aids-go/internal/types"
)

type mockDuplicateChecker struct{ mock.Mock }

func (m *mockDuplicateChecker) MarkUploadSeen(ctx context.Context, md5Hex string) (bool, error) {
	args := m.Called(ctx, md5Hex)
	return args.Bool(0), args.Error(1)
}

type mockArchiver struct{ mock.Mock }

func (m *mockArchiver) ArchiveUpload(ctx context.Context, requestID, ext string, data []byte) (string, error) {
	args := m.Called(ctx, requestID, ext, data)
	return args.String(0), args.Error(1)
}

type mockAuditRecorder struct{ mock.Mock }

func (m *mockAuditRecorder) RecordParse(ctx context.Context, record *models.ParseRecord, event *storage.ResumeParsedEvent) error {
	args := m.Called(ctx, record, event)
	return args.Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishParsedEvent(ctx context.Context, event *storage.ResumeParsedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// panicParser 模拟解析器内部故障
type panicParser struct{}

func (panicParser) Parse([]byte) *types.ParsedResume {
	panic("boom")
}

type nilParser struct{}

func (nilParser) Parse([]byte) *types.ParsedResume { return nil }
