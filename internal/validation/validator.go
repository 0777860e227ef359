package validation

import (
	"errors"
	"log"
	"reflect"
	"strings"

	"neon_quizlet/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

// 画面に出すフィールド名
var fieldNameTranslations = map[string]string{
	"title":        "Title",
	"description":  "Description",
	"terms":        "Terms",
	"term":         "Term",
	"definition":   "Definition",
	"name":         "Name",
	"email":        "Email",
	"password":     "Password",
	"primaryColor": "Primary color",
}

func displayName(field string) string {
	if name, ok := fieldNameTranslations[field]; ok {
		return name
	}
	return field
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得する
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// registerTranslation はフィールド名を表示名にしてメッセージを上書きします
	registerTranslation := func(tag, msg string, withParam bool) {
		err := Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			params := []string{displayName(fe.Field())}
			if withParam {
				params = append(params, fe.Param())
			}
			t, _ := ut.T(tag, params...)
			return t
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	registerTranslation("required", "{0} is required.", false)
	registerTranslation("email", "{0} must be a valid email address.", false)
	registerTranslation("hexcolor", "{0} must be a hex color like #8A2BE2.", false)
	registerTranslation("min", "{0} must be at least {1} characters.", true)
	registerTranslation("max", "{0} must be at most {1} characters.", true)
}

// Struct は s を検証し、最初のエラーを ErrInvalidInput を包んだ AppError にして返します
func Struct(s any) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return model.NewAppError("VALIDATION_ERROR", fe.Translate(Trans), fieldPath(fe), model.ErrInvalidInput)
	}
	return model.NewAppError("VALIDATION_ERROR", "invalid input", "", model.ErrInvalidInput)
}

// Var は単一の値を tag で検証します
func Var(field string, value any, tag string) error {
	err := Validator.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		// Var のエラーはフィールド名が空なので先頭に付け足す
		msg := displayName(field) + verrs[0].Translate(Trans)
		return model.NewAppError("VALIDATION_ERROR", msg, field, model.ErrInvalidInput)
	}
	return model.NewAppError("VALIDATION_ERROR", "invalid input", field, model.ErrInvalidInput)
}

// fieldPath は "CreateModuleRequest.terms[0].term" を "terms[0].term" にします
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
