package students

type CreateStudentRequest struct {
	ID    int64  `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UpdateStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type ActivateRequest struct {
	Email    string `json:"email" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type StudentResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Active bool    `json:"active"`
	// RegCode is only present while the account is still waiting for
	// activation; the admin hands it to the student out of band.
	RegCode *string `json:"reg_code,omitempty"`
}

func toResponse(s *Student) StudentResponse {
	resp := StudentResponse{
		ID:     s.ID,
		Name:   s.Name,
		Email:  s.Email,
		Active: s.Active,
	}
	if s.RegCode.Valid {
		val := s.RegCode.String
		resp.RegCode = &val
	}
	return resp
}
