/*
Copyright © 2026 the inpoly authors.
This file is part of inpoly.

inpoly is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

inpoly is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with inpoly.  If not, see <http://www.gnu.org/licenses/>.
*/

package inpolyutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// maybeDownload checks if path is an existing local file. If not, and path
// is a URL or a blob storage location, the file is downloaded to a
// temporary directory and the path to the downloaded file is returned.
// For shapefiles, all of the associated files are downloaded and
// the path to the file with the ".shp" extension is returned.
// Other paths are returned unchanged.
func maybeDownload(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(ctx, path)
	}
	if IsBlob(path) {
		return downloadBlob(ctx, path)
	}
	return path, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(ctx context.Context, path string) (string, error) {
	dir, err := ioutil.TempDir("", "inpoly")
	if err != nil {
		return "", fmt.Errorf("inpolyutil: creating temporary download directory: %w", err)
	}
	fnames := expandShp(path)
	for _, fname := range fnames {
		if err := downloadHTTPFile(ctx, fname, filepath.Join(dir, filepath.Base(fname)), optionalFile(fname)); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, filepath.Base(fnames[0])), nil
}

// downloadHTTPFile downloads fileURL to dst. If optional is true, a file
// that does not exist on the server is skipped.
func downloadHTTPFile(ctx context.Context, fileURL, dst string, optional bool) error {
	req, err := http.NewRequest(http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("inpolyutil: downloading %s: %w", fileURL, err)
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("inpolyutil: downloading %s: %w", fileURL, err)
	}
	defer resp.Body.Close()
	if optional && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inpolyutil: downloading %s: %s", fileURL, resp.Status)
	}
	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("inpolyutil: creating file for download: %w", err)
	}
	if _, err = io.Copy(w, resp.Body); err != nil {
		w.Close()
		return fmt.Errorf("inpolyutil: downloading %s: %w", fileURL, err)
	}
	return w.Close()
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// Even if name contains subdirectories, only the base directory name will be
// used when opening the bucket.
// The currently accepted storage providers are "file" for the local filesystem
// (e.g., for testing), "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("inpolyutil.OpenBucket: %w", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.OpenBucket(u.Hostname(), nil)
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("inpolyutil.OpenBucket: invalid provider %s", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, c, name, nil)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("inpolyutil: parsing blob path: %w", err)
	}
	bucket, err := OpenBucket(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return "", err
	}
	dir, err := ioutil.TempDir("", "inpoly")
	if err != nil {
		return "", fmt.Errorf("inpolyutil: creating temporary download directory: %w", err)
	}
	fnames := expandShp(strings.TrimPrefix(u.Path, "/"))
	for _, key := range fnames {
		if err := downloadBlobFile(ctx, bucket, key, filepath.Join(dir, filepath.Base(key)), optionalFile(key)); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, filepath.Base(fnames[0])), nil
}

// downloadBlobFile downloads key from bucket to dst. If optional is true,
// a blob that cannot be opened is skipped.
func downloadBlobFile(ctx context.Context, bucket *blob.Bucket, key, dst string, optional bool) error {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil && optional {
		return nil
	} else if err != nil {
		return fmt.Errorf("inpolyutil: opening blob '%s': %w", key, err)
	}
	defer r.Close()
	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("inpolyutil: creating file for download: %w", err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("inpolyutil: downloading blob '%s': %w", key, err)
	}
	return w.Close()
}

// expandShp returns the given file + associated [.dbf, .shx, .prj]
// files if the given file has the .shp extension, and returns the given
// file otherwise.
func expandShp(filename string) []string {
	o := []string{filename}
	if filepath.Ext(filename) != ".shp" {
		return o
	}
	base := strings.TrimSuffix(filename, ".shp")
	for _, ext := range []string{".dbf", ".shx", ".prj"} {
		o = append(o, base+ext)
	}
	return o
}

// optionalFile returns whether filename is a shapefile support file
// that does not need to exist. Shapefiles written by WriteResults have
// no .prj file.
func optionalFile(filename string) bool {
	return filepath.Ext(filename) == ".prj"
}

// uploader stages output files that should be written to blob storage.
type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	err   error
	dir   string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// the upload method is run.
func (u *uploader) maybeUpload(path string) string {
	if u.err != nil {
		return ""
	}
	if !IsBlob(path) {
		return path
	}
	if u.dir == "" {
		u.dir, u.err = ioutil.TempDir("", "inpoly")
		if u.err != nil {
			return ""
		}
	}
	files := expandShp(path)
	for _, f := range files {
		u.files = append(u.files, [2]string{
			filepath.Join(u.dir, filepath.Base(f)),
			f,
		})
	}
	return filepath.Join(u.dir, filepath.Base(files[0]))
}

// upload copies all staged files to blob storage. Staged shapefile
// support files that were never created, such as a missing .prj,
// are skipped.
func (u *uploader) upload(ctx context.Context) error {
	if u.err != nil {
		return u.err
	}
	for _, files := range u.files {
		if err := uploadFile(ctx, files[0], files[1]); err != nil {
			return err
		}
	}
	return nil
}

func uploadFile(ctx context.Context, src, dst string) error {
	r, err := os.Open(src)
	if os.IsNotExist(err) && optionalFile(src) {
		return nil
	} else if err != nil {
		return fmt.Errorf("inpolyutil: opening file '%s' for upload: %w", src, err)
	}
	defer r.Close()
	u, err := url.Parse(dst)
	if err != nil {
		return fmt.Errorf("inpolyutil: parsing url '%s' for upload: %w", dst, err)
	}
	bucket, err := OpenBucket(ctx, u.Scheme+"://"+u.Host)
	if err != nil {
		return fmt.Errorf("inpolyutil: opening bucket to upload file '%s': %w", dst, err)
	}
	w, err := bucket.NewWriter(ctx, strings.TrimPrefix(u.Path, "/"), &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("inpolyutil: opening writer to upload file '%s': %w", dst, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("inpolyutil: uploading file '%s' to '%s': %w", src, dst, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("inpolyutil: uploading file '%s' to '%s': %w", src, dst, err)
	}
	return nil
}
