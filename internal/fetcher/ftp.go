package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPOptions configures the FTP fetcher. Zero credentials mean
// anonymous login, which is what the campus drop boxes use.
type FTPOptions struct {
	Timeout  time.Duration
	User     string
	Password string
}

// FTPFetcher downloads snapshot files from FTP drop boxes. Some campus
// partners still publish exports that way rather than over HTTP.
type FTPFetcher struct {
	opts FTPOptions
}

// NewFTPFetcher creates an FTPFetcher, defaulting to a 30s dial
// timeout and anonymous login.
func NewFTPFetcher(opts FTPOptions) *FTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.User == "" {
		opts.User = "anonymous"
		opts.Password = "anonymous@"
	}
	return &FTPFetcher{opts: opts}
}

// dropLocation is a parsed ftp:// URL: a dialable address and the
// remote file path.
type dropLocation struct {
	addr string
	path string
}

// parseFTPURL splits an ftp:// URL into its drop-box location,
// defaulting the port to 21.
func parseFTPURL(rawURL string) (dropLocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return dropLocation{}, eris.Wrap(err, "ftp: parse url")
	}
	if u.Scheme != "ftp" {
		return dropLocation{}, eris.Errorf("ftp: expected ftp scheme, got %q", u.Scheme)
	}
	if u.Path == "" {
		return dropLocation{}, eris.New("ftp: url names no file")
	}

	addr := u.Host
	if _, _, splitErr := net.SplitHostPort(addr); splitErr != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	return dropLocation{addr: addr, path: u.Path}, nil
}

// ftpFile keeps the control connection alive for the lifetime of the
// transfer; closing it releases both.
type ftpFile struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (f *ftpFile) Read(p []byte) (int, error) {
	return f.resp.Read(p)
}

func (f *ftpFile) Close() error {
	respErr := f.resp.Close()
	quitErr := f.conn.Quit()
	if respErr != nil {
		return eris.Wrap(respErr, "ftp: close transfer")
	}
	if quitErr != nil {
		return eris.Wrap(quitErr, "ftp: quit connection")
	}
	return nil
}

// Download retrieves the file named by an ftp:// URL. The caller must
// close the returned reader to release the connection.
func (f *FTPFetcher) Download(ctx context.Context, ftpURL string) (io.ReadCloser, error) {
	loc, err := parseFTPURL(ftpURL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("ftp: fetching snapshot",
		zap.String("addr", loc.addr),
		zap.String("path", loc.path),
	)

	conn, err := ftp.Dial(loc.addr, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: dial %s", loc.addr)
	}

	if err := conn.Login(f.opts.User, f.opts.Password); err != nil {
		conn.Quit() //nolint:errcheck
		return nil, eris.Wrap(err, "ftp: login")
	}

	resp, err := conn.Retr(loc.path)
	if err != nil {
		conn.Quit() //nolint:errcheck
		return nil, eris.Wrapf(err, "ftp: retrieve %s", loc.path)
	}

	return &ftpFile{resp: resp, conn: conn}, nil
}

// DownloadToFile retrieves an ftp:// URL into a local file and returns
// the bytes written.
func (f *FTPFetcher) DownloadToFile(ctx context.Context, ftpURL string, path string) (int64, error) {
	rc, err := f.Download(ctx, ftpURL)
	if err != nil {
		return 0, err
	}
	defer rc.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "ftp: create local file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, rc)
	if err != nil {
		return n, eris.Wrap(err, "ftp: write local file")
	}

	return n, nil
}
