package site

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/suaybkiraci/BlogSite/constants"
)

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var allowedFileExts = map[string]bool{
	".pdf": true, ".docx": true, ".doc": true, ".txt": true,
}

// UploadImage stores an image under a fresh uuid name. When a post_id form
// field is present the file is also recorded as an attachment of that post.
func (s *Server) UploadImage(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "images", allowedImageExts)
}

func (s *Server) UploadFile(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, "files", allowedFileExts)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, subdir string, allowed map[string]bool) {
	if err := r.ParseMultipartForm(constants.MAX_UPLOAD_BYTES); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "file field is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid file format"})
		return
	}

	uniqueName := uuid.New().String() + ext
	size, err := s.saveUpload(file, subdir, uniqueName)
	if err != nil {
		writeError(w, err)
		return
	}
	fileURL := "/static/uploads/" + subdir + "/" + uniqueName

	// Optionally tie the upload to a post as an attachment.
	if rawPostID := r.FormValue("post_id"); rawPostID != "" {
		postID, err := strconv.ParseUint(rawPostID, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid post_id"})
			return
		}
		caller := GetSignedInUserOrNil(r)
		_, err = s.Blog.AddAttachment(caller, uint(postID), header.Filename, fileURL, strings.TrimPrefix(ext, "."), size)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filename": header.Filename,
		"url":      fileURL,
		"size":     size,
	})
}

func (s *Server) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MAX_UPLOAD_BYTES); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "file field is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid image format"})
		return
	}

	uniqueName := uuid.New().String() + ext
	if _, err := s.saveUpload(file, "profile", uniqueName); err != nil {
		writeError(w, err)
		return
	}

	user := GetSignedInUserOrNil(r)
	oldImage := user.ProfileImage

	err = s.Auth.SetProfileImage(user, "/static/uploads/profile/"+uniqueName)
	if err != nil {
		writeError(w, err)
		return
	}

	// Only now that the record points at the new file is the previous one
	// safe to drop.
	if strings.HasPrefix(oldImage, "/static/uploads/profile/") {
		os.Remove(filepath.Join(s.UploadDir, "profile", filepath.Base(oldImage)))
	}

	writeJSON(w, http.StatusOK, newUserOut(user))
}

func (s *Server) saveUpload(src io.Reader, subdir, name string) (int64, error) {
	dir := filepath.Join(s.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return 0, err
	}
	defer dst.Close()
	return io.Copy(dst, src)
}
