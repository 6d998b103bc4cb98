package dto

type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	// alias lama: email / roll_number
	Email      string `json:"email" form:"email"`
	RollNumber string `json:"roll_number" form:"roll_number"`
	Password   string `json:"password" form:"password"`
}

func (r LoginRequest) ResolvedIdentifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Email != "":
		return r.Email
	default:
		return r.RollNumber
	}
}

type LoginGoogleRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=120"`
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
}
