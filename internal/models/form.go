package models

import (
	"bytes"
	"encoding/json"
)

// PersonalInfo личные данные из формы.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
}

// WorkExperience запись об опыте работы.
type WorkExperience struct {
	Company   string `json:"company"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Education запись об образовании. Level необязателен.
type Education struct {
	School   string `json:"school"`
	Location string `json:"location"`
	Degree   string `json:"degree"`
	Year     string `json:"year"`
	Level    string `json:"level"`
}

// UnmarshalJSON принимает год числом и null в любом поле, как их
// сохраняли старые версии формы.
func (e *Education) UnmarshalJSON(data []byte) error {
	type plain Education
	var raw struct {
		plain
		Year json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Education(raw.plain)
	e.Year = ""
	switch y := bytes.TrimSpace(raw.Year); {
	case len(y) == 0, bytes.Equal(y, []byte("null")):
	case y[0] == '"':
		if err := json.Unmarshal(y, &e.Year); err != nil {
			return err
		}
	default:
		e.Year = string(y)
	}
	return nil
}

// FormPayload сериализованная форма, которую принимают эндпоинты анализа,
// генерации и сохранения данных.
type FormPayload struct {
	PersonalInfo   PersonalInfo     `json:"personal_info"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Languages      []string         `json:"languages"`
	JobDescription string           `json:"job_description"`
}
