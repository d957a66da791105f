// Package enrich fetches optional project metadata over the network:
// repository details from the GitHub API and funding pages on well-known
// donation platforms.
//
// Enrichment is strictly additive. Resolution and allocation never depend
// on it, and every failure here degrades to a warning in the caller.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/osfund/osfund/internal/resolve"
)

// Metadata is what enrichment learned about one project.
type Metadata struct {
	RepoURL     string
	Description string
	Stars       int64
	FundingURLs []string
}

// Fetcher queries the GitHub API and donation platforms. Base URLs are
// fields so tests can point them at a local server.
type Fetcher struct {
	client         *http.Client
	githubAPIBase  string
	liberapayBase  string
	collectiveBase string
}

// New returns a Fetcher with production endpoints and a conservative timeout.
func New() *Fetcher {
	return &Fetcher{
		client:         &http.Client{Timeout: 10 * time.Second},
		githubAPIBase:  "https://api.github.com",
		liberapayBase:  "https://liberapay.com",
		collectiveBase: "https://opencollective.com",
	}
}

// NewWithEndpoints returns a Fetcher against explicit endpoints. Tests use
// this with httptest servers.
func NewWithEndpoints(client *http.Client, githubAPI, liberapay, collective string) *Fetcher {
	return &Fetcher{
		client:         client,
		githubAPIBase:  githubAPI,
		liberapayBase:  liberapay,
		collectiveBase: collective,
	}
}

// githubRepo is the subset of the GitHub repository response we read.
type githubRepo struct {
	Description string `json:"description"`
	Stars       int64  `json:"stargazers_count"`
	Homepage    string `json:"homepage"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// Fetch gathers metadata for one project. Projects without a recognizable
// repository URL still get funding-platform probes keyed by project slug.
func (f *Fetcher) Fetch(ctx context.Context, project resolve.Project) (*Metadata, error) {
	meta := &Metadata{RepoURL: project.RepoURL}

	owner, repo, ok := ParseGitHubRepo(project.RepoURL)
	if ok {
		gh, err := f.fetchGitHub(ctx, owner, repo)
		if err != nil {
			return nil, err
		}
		meta.Description = gh.Description
		meta.Stars = gh.Stars
		meta.FundingURLs = append(meta.FundingURLs, "https://github.com/sponsors/"+gh.Owner.Login)
	}

	slug := string(project.Key)
	if url := f.probe(ctx, f.liberapayBase+"/"+slug); url != "" {
		meta.FundingURLs = append(meta.FundingURLs, url)
	}
	if url := f.probe(ctx, f.collectiveBase+"/"+slug); url != "" {
		meta.FundingURLs = append(meta.FundingURLs, url)
	}

	return meta, nil
}

func (f *Fetcher) fetchGitHub(ctx context.Context, owner, repo string) (*githubRepo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", f.githubAPIBase, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request for %s/%s failed: %w", owner, repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %d for %s/%s", resp.StatusCode, owner, repo)
	}

	var gh githubRepo
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, fmt.Errorf("failed to decode github response for %s/%s: %w", owner, repo, err)
	}
	return &gh, nil
}

// probe checks whether a funding page exists. Any non-2xx status, error, or
// timeout means "no page"; probes never fail the enrichment of a project.
func (f *Fetcher) probe(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return ""
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return url
	}
	return ""
}

// ParseGitHubRepo extracts (owner, repo) from a github.com repository URL.
func ParseGitHubRepo(url string) (owner, repo string, ok bool) {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")

	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if rest, found := strings.CutPrefix(url, prefix); found {
			parts := strings.Split(rest, "/")
			if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
				return parts[0], parts[1], true
			}
			return "", "", false
		}
	}
	return "", "", false
}
