package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"circle-backend/internal/apperror"
	"circle-backend/internal/state"
)

func handleUpdateProfile(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	type profileField struct {
		column  string
		param   string
		numeric bool
	}

	updatable := []profileField{
		{column: "nickname", param: "nickname"},
		{column: "email", param: "email"},
		{column: "admission_year", param: "admission_year", numeric: true},
		{column: "graduation_year", param: "graduation_year", numeric: true},
		{column: "major", param: "major"},
		{column: "student_id", param: "student_id"},
		{column: "bio", param: "bio"},
		{column: "theme", param: "theme"},
		{column: "ui_scale", param: "ui_scale"},
		{column: "language", param: "language"},
		{column: "timezone", param: "timezone"},
	}

	var assignments []string
	var values []any

	for _, field := range updatable {
		value := r.FormValue(field.param)
		if value == "" {
			continue
		}

		if field.numeric {
			year, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, apperror.Newf(apperror.InvalidArgument, "%s must be a number", field.param)
			}
			values = append(values, year)
		} else {
			values = append(values, value)
		}

		assignments = append(assignments, fmt.Sprintf("%s = ?", field.column))
	}

	if len(assignments) == 0 {
		return nil, apperror.New(apperror.InvalidArgument, "No fields to update")
	}

	values = append(values, time.Now().Unix(), user.ID)
	query := fmt.Sprintf("UPDATE users SET %s, updated_at = ? WHERE id = ?", strings.Join(assignments, ", "))

	if _, err := db.Exec(query, values...); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}
