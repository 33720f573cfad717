package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	profilesPath     = "profiles/"
	uploadResumePath = "profiles/upload-resume"
	resumeFormField  = "file"
)

var resumeExtensions = []string{".pdf", ".docx", ".doc"}

type Profiles struct {
	Items []*Profile
}

type Profile struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id,omitempty"`
	FullName       string    `json:"full_name"`
	CareerRole     string    `json:"career_role"`
	Skills         string    `json:"skills"`
	ResumeContent  string    `json:"resume_content,omitempty"`
	ResumeFileName string    `json:"resume_file_name,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

type ProfileCreate struct {
	FullName       string `json:"full_name"`
	CareerRole     string `json:"career_role"`
	Skills         string `json:"skills"`
	ResumeContent  string `json:"resume_content,omitempty"`
	ResumeFileName string `json:"resume_file_name,omitempty"`
}

// ProfileUpdate carries only the fields to change; nil fields are left untouched.
type ProfileUpdate struct {
	FullName      *string `json:"full_name,omitempty"`
	CareerRole    *string `json:"career_role,omitempty"`
	Skills        *string `json:"skills,omitempty"`
	ResumeContent *string `json:"resume_content,omitempty"`
}

type ResumeUpload struct {
	Message       string `json:"message"`
	ResumeContent string `json:"resume_content"`
	Filename      string `json:"filename"`
}

func (c *Client) ListProfiles(ctx context.Context) (*Profiles, error) {
	var items []*Profile
	if err := c.doJSON(ctx, http.MethodGet, profilesPath, nil, &items); err != nil {
		return nil, err
	}

	return &Profiles{Items: items}, nil
}

func (c *Client) GetProfile(ctx context.Context, id int) (*Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s%d", profilesPath, id), nil, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (c *Client) CreateProfile(ctx context.Context, p ProfileCreate) (*Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var profile Profile
	if err := c.doJSON(ctx, http.MethodPost, profilesPath, p, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, id int, p ProfileUpdate) (*Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s%d", profilesPath, id), p, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (c *Client) DeleteProfile(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s%d", profilesPath, id), nil, nil)
}

// UploadResume sends a resume document for text extraction.
func (c *Client) UploadResume(ctx context.Context, filename string, file io.Reader) (*ResumeUpload, error) {
	if err := CheckResumeFile(filename); err != nil {
		return nil, err
	}

	var upload ResumeUpload
	if err := c.postMultipart(ctx, uploadResumePath, resumeFormField, filepath.Base(filename), file, &upload); err != nil {
		return nil, err
	}

	return &upload, nil
}

// CheckResumeFile rejects file types the backend parser cannot read.
func CheckResumeFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range resumeExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedResume, filepath.Base(filename))
}

func (p ProfileCreate) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("full name is required")
	}
	if strings.TrimSpace(p.CareerRole) == "" {
		return errors.New("career role is required")
	}
	if strings.TrimSpace(p.Skills) == "" {
		return errors.New("skills are required")
	}
	return nil
}

func (p *Profiles) Len() int {
	return len(p.Items)
}

func (p *Profiles) FindByID(id int) *Profile {
	for _, profile := range p.Items {
		if profile.ID == id {
			return profile
		}
	}
	return nil
}

// Labels returns one human readable line per profile, in list order.
func (p *Profiles) Labels() []string {
	labels := make([]string, 0, len(p.Items))
	for _, profile := range p.Items {
		labels = append(labels, profile.Label())
	}
	return labels
}

func (p *Profile) Label() string {
	resume := "no resume"
	if strings.TrimSpace(p.ResumeContent) != "" {
		resume = "resume attached"
	}
	return fmt.Sprintf("%d %s / %s / %s", p.ID, p.FullName, p.CareerRole, resume)
}
