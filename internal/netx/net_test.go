package netx

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMultipartForm(t *testing.T) {
	body, ct, err := MultipartForm(map[string]string{"name": "Loft", "price": "100"}, "picture", "loft.png", pngHeader)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	assert.Equal(t, []string{"Loft"}, form.Value["name"])
	assert.Equal(t, []string{"100"}, form.Value["price"])

	require.Len(t, form.File["picture"], 1)
	fh := form.File["picture"][0]
	assert.Equal(t, "loft.png", fh.Filename)
	assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))

	f, err := fh.Open()
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestMultipartForm_FieldsOnly(t *testing.T) {
	body, ct, err := MultipartForm(map[string]string{"name": "Loft"}, "", "", nil)
	require.NoError(t, err)

	_, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Empty(t, form.File)
	assert.Equal(t, []string{"Loft"}, form.Value["name"])
}
