package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Singh-26/autopost/builder/publisher"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/testutil"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

func newPublisher(remote *testutil.FakeRemote, fs afero.Fs) *publisher.Publisher {
	dial := func(context.Context) (publisher.Transport, error) {
		r, err := remote.Connect()
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return publisher.New(dial, fs, publisher.Options{RootDir: "/site/blog"}, utils.DiscardLogger())
}

func TestDir(t *testing.T) {
	fs := testutil.CreateTestFilesystemWithContent(map[string]string{
		"blog-posts/7.json":         `{"id":7}`,
		"blog-posts/post-7.html":    "<html>seven</html>",
		"blog-posts/index.json":     `[{"id":7}]`,
		"blog-posts/images/7.jpg":   "jpeg",
		"blog-posts/.autopost.lock": "123",
	})
	remote := testutil.NewFakeRemote()

	res, err := Dir(context.Background(), storage.NewLocal(fs, "blog-posts", utils.DiscardLogger()), newPublisher(remote, fs), utils.DiscardLogger())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, res.Uploaded, 4)

	for _, p := range []string{"/site/blog/7.json", "/site/blog/post-7.html", "/site/blog/index.json", "/site/blog/images/7.jpg"} {
		ok, _ := afero.Exists(remote.Fs, p)
		assert.True(t, ok, "missing %s", p)
	}
	ok, _ := afero.Exists(remote.Fs, "/site/blog/.autopost.lock")
	assert.False(t, ok, "hidden files stay local")
}

func TestDir_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	remote := testutil.NewFakeRemote()

	_, err := Dir(context.Background(), storage.NewLocal(fs, "blog-posts", utils.DiscardLogger()), newPublisher(remote, fs), utils.DiscardLogger())
	assert.ErrorIs(t, err, ErrNothingToPublish)
	assert.Empty(t, remote.Ops, "no connection is opened")
}

func TestDir_ConnectFailure(t *testing.T) {
	fs := testutil.CreateTestFilesystemWithContent(map[string]string{
		"blog-posts/index.json": "[]",
	})
	remote := testutil.NewFakeRemote()
	remote.ConnectErr = errors.New("530 login incorrect")

	_, err := Dir(context.Background(), storage.NewLocal(fs, "blog-posts", utils.DiscardLogger()), newPublisher(remote, fs), utils.DiscardLogger())
	assert.ErrorIs(t, err, publisher.ErrConnect)
}
