package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	profile *models.UserProfile
	logs    map[string]models.DayLog
	err     error
}

func (f fakeSource) GetProfile(context.Context, string) (*models.UserProfile, error) {
	return f.profile, f.err
}

func (f fakeSource) GetAllLogs(context.Context, string) (map[string]models.DayLog, error) {
	return f.logs, f.err
}

type memSink struct {
	got map[string][]byte
	err error
}

func (m *memSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.got == nil {
		m.got = map[string][]byte{}
	}
	m.got[name] = data
	return "mem://" + name, nil
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	buf := make([]byte, *in.ContentLength)
	_, _ = in.Body.Read(buf)
	f.body = buf
	return &s3.PutObjectOutput{}, f.err
}

func sampleSource() fakeSource {
	p := models.NewOnboardingProfile("Ana")
	d := models.NewDayLog("2026-10-16")
	d.WaterLogs = append(d.WaterLogs, models.WaterLog{ID: "w1", Amount: 500, Time: "09:00"})
	d.Meals = append(d.Meals, models.Meal{ID: "m1", Type: models.MealSnack, Items: []models.FoodItem{}})
	return fakeSource{profile: &p, logs: map[string]models.DayLog{"2026-10-16": d}}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 16, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "aura-backup-2026-10-17.json", FileName(at))
}

func TestEncodeDecode(t *testing.T) {
	src := sampleSource()
	data, err := Encode(models.Backup{Profile: src.profile, Logs: src.logs})
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, src.profile, got.Profile)
	assert.Equal(t, src.logs, got.Logs)

	empty, err := Encode(models.Backup{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"profile":null,"logs":{}}`, string(empty))
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte(`{"logs":{"16/10/2026":{}}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"logs":{"2026-10-16":{"meals":[{"type":"brunch"}]}}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`nope`))
	assert.Error(t, err)
}

func TestDecode_NormalizesDays(t *testing.T) {
	b, err := Decode([]byte(`{"profile":null,"logs":{"2026-10-16":{}}}`))
	require.NoError(t, err)
	d := b.Logs["2026-10-16"]
	assert.Equal(t, "2026-10-16", d.Date)
	assert.NotNil(t, d.WaterLogs)
	assert.NotNil(t, d.Meals)
}

func TestExport(t *testing.T) {
	a, b := &memSink{}, &memSink{}
	e := NewExporter(sampleSource(), logging.Nop{}, a, b)
	e.nowFn = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

	locs, err := e.Export(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mem://aura-backup-2026-10-16.json", "mem://aura-backup-2026-10-16.json"}, locs)

	got, err := Decode(a.got["aura-backup-2026-10-16.json"])
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Profile.Name)
	assert.Equal(t, 500.0, got.Logs["2026-10-16"].WaterTotal())
}

func TestExport_PartialFailure(t *testing.T) {
	boom := errors.New("boom")
	ok, bad := &memSink{}, &memSink{err: boom}
	e := NewExporter(sampleSource(), logging.Nop{}, bad, ok)

	locs, err := e.Export(context.Background(), "u1")
	require.ErrorIs(t, err, boom)
	assert.Len(t, locs, 1)
}

func TestExport_Errors(t *testing.T) {
	_, err := NewExporter(sampleSource(), logging.Nop{}).Export(context.Background(), "u1")
	assert.Error(t, err, "no sinks")

	boom := errors.New("db down")
	_, err = NewExporter(fakeSource{err: boom}, logging.Nop{}, &memSink{}).Export(context.Background(), "u1")
	require.ErrorIs(t, err, boom)
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir()
	p, err := FileSink{Dir: dir}.Put(context.Background(), "b.json", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.json"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestS3Sink_Put(t *testing.T) {
	fake := &fakeS3{}
	s := &S3Sink{client: fake, bucket: "aura", prefix: "backups"}

	loc, err := s.Put(context.Background(), "b.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://aura/backups/b.json", loc)
	assert.Equal(t, "aura", *fake.input.Bucket)
	assert.Equal(t, "backups/b.json", *fake.input.Key)
	assert.Equal(t, "application/json", *fake.input.ContentType)
	assert.Equal(t, `{"a":1}`, string(fake.body))

	fake.err = errors.New("denied")
	_, err = s.Put(context.Background(), "b.json", nil)
	require.ErrorIs(t, err, fake.err)
}

func TestNewS3Sink(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	assert.Error(t, err)

	s, err := NewS3Sink(context.Background(), S3Config{
		Bucket: "aura", Region: "us-east-1", BaseEndpoint: "http://localhost:9000",
		AccessKey: "minio", SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "aura", s.bucket)
	assert.Equal(t, "b.json", s.key("b.json"))
}
