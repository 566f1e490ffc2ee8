package artifact

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	keys      []string
	bodies    map[string]string
	types     map[string]string
	checksums map[string]string
	err       error
}

func (u *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if u.bodies == nil {
		u.bodies = map[string]string{}
		u.types = map[string]string{}
		u.checksums = map[string]string{}
	}
	key := aws.StringValue(in.Key)
	u.keys = append(u.keys, key)
	u.bodies[key] = string(body)
	u.types[key] = aws.StringValue(in.ContentType)
	u.checksums[key] = aws.StringValue(in.Metadata["Xxhash"])
	return &s3manager.UploadOutput{Location: "s3://" + aws.StringValue(in.Bucket) + "/" + key}, nil
}

func TestS3MirrorUploadsUnderUploadPrefix(t *testing.T) {
	up := &fakeUploader{}
	m := NewS3MirrorWithUploader(up, "reports", "exemplar")

	arts := []entity.Artifact{
		{Name: entity.FilePaymentReport, Data: []byte("a,b\n")},
		{Name: entity.FileExemplarReport, Data: []byte("xlsx")},
	}
	require.NoError(t, m.Mirror(context.Background(), "u-1", arts))

	assert.Equal(t, []string{
		"exemplar/u-1/" + entity.FilePaymentReport,
		"exemplar/u-1/" + entity.FileExemplarReport,
	}, up.keys)
	assert.Equal(t, "a,b\n", up.bodies["exemplar/u-1/"+entity.FilePaymentReport])
	assert.Equal(t, "text/csv", up.types["exemplar/u-1/"+entity.FilePaymentReport])
	assert.Equal(t, Checksum([]byte("xlsx")), up.checksums["exemplar/u-1/"+entity.FileExemplarReport])
}

func TestS3MirrorKeepsUploadBytesAfterLaterWrite(t *testing.T) {
	w, err := NewLocalWriter(t.TempDir())
	require.NoError(t, err)

	first := []entity.Artifact{{Name: entity.FileExemplarReport, Data: []byte("upload-A")}}
	second := []entity.Artifact{{Name: entity.FileExemplarReport, Data: []byte("upload-B")}}

	_, err = w.Write(context.Background(), first)
	require.NoError(t, err)
	_, err = w.Write(context.Background(), second)
	require.NoError(t, err)

	up := &fakeUploader{}
	m := NewS3MirrorWithUploader(up, "reports", "p")
	require.NoError(t, m.Mirror(context.Background(), "upload-a-id", first))

	key := "p/upload-a-id/" + entity.FileExemplarReport
	assert.Equal(t, "upload-A", up.bodies[key])
	assert.Equal(t, Checksum([]byte("upload-A")), up.checksums[key])
}

func TestS3MirrorJoinsErrors(t *testing.T) {
	boom := errors.New("access denied")
	m := NewS3MirrorWithUploader(&fakeUploader{err: boom}, "reports", "")

	err := m.Mirror(context.Background(), "u-1", []entity.Artifact{
		{Name: "a.csv", Data: []byte("x")},
		{Name: "b.xlsx", Data: []byte("y")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, strings.Split(err.Error(), "\n"), 2)
}

func TestNewS3MirrorRequiresBucket(t *testing.T) {
	_, err := NewS3Mirror("ap-south-1", "", "")
	assert.Error(t, err)
}
