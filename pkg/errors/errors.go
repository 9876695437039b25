// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// scikit-learnの警告・例外システムにインスパイアされており、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("geneticfs-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// UndefinedMetricWarningやNormalizationErrorなどの警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	scikit-learn互換の警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、y_trueの分散が0でR²が定義できない場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型（モデル・データ）
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("geneticfs: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("geneticfs: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("geneticfs: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geneticfs: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("geneticfs: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	遺伝的探索のエラー型
//
// ===========================================================================

// ConfigurationError は探索設定が不正な場合、または差し替えられた集団の形状が
// 実行中の次元と一致しない場合のエラーです。回復不能として扱います。
type ConfigurationError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("geneticfs: invalid configuration '%s': %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ConfigurationError{Param: param, Reason: reason, Value: value})
}

// DegenerateSubsetError は染色体が特徴量を1つも選択していない場合のエラーです。
type DegenerateSubsetError struct {
	Length int // 染色体長（全遺伝子が0）
}

func (e *DegenerateSubsetError) Error() string {
	return fmt.Sprintf("geneticfs: chromosome of length %d selects no features", e.Length)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateSubsetError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("length", e.Length).
		Str("type", "DegenerateSubsetError")
}

// NewDegenerateSubsetError は新しいDegenerateSubsetErrorを作成し、スタックトレースを付与します。
func NewDegenerateSubsetError(length int) error {
	return errors.WithStack(&DegenerateSubsetError{Length: length})
}

// ScoringUndefinedError はモデルのスコアがNaNやInfになった場合のエラーです。
// 正規化の合計にそのまま加算してはいけません。
type ScoringUndefinedError struct {
	Metric string
	Value  float64
}

func (e *ScoringUndefinedError) Error() string {
	return fmt.Sprintf("geneticfs: %s score is undefined (%v)", e.Metric, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ScoringUndefinedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Float64("value", e.Value).
		Str("type", "ScoringUndefinedError")
}

// NewScoringUndefinedError は新しいScoringUndefinedErrorを作成し、スタックトレースを付与します。
func NewScoringUndefinedError(metric string, value float64) error {
	return errors.WithStack(&ScoringUndefinedError{Metric: metric, Value: value})
}

// NormalizationError はある世代のスコア合計が0（または負・非有限）で
// 適応度を正規化できない場合のエラーです。探索は一様な適応度にフォールバックし、
// このエラーは警告として通知されます。
type NormalizationError struct {
	Generation int
	Sum        float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("geneticfs: generation %d: score sum %v cannot normalize fitness, falling back to uniform weights", e.Generation, e.Sum)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NormalizationError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("generation", e.Generation).
		Float64("sum", e.Sum).
		Str("type", "NormalizationError")
}

// NewNormalizationError は新しいNormalizationErrorを作成します。
func NewNormalizationError(generation int, sum float64) *NormalizationError {
	return &NormalizationError{Generation: generation, Sum: sum}
}

// SearchError は探索が中断した世代と染色体のインデックスを示すラッパーです。
// Chromosome が -1 の場合は世代全体に関するエラーです。
type SearchError struct {
	Generation int
	Chromosome int
	Err        error
}

func (e *SearchError) Error() string {
	if e.Chromosome < 0 {
		return fmt.Sprintf("geneticfs: generation %d: %v", e.Generation, e.Err)
	}
	return fmt.Sprintf("geneticfs: generation %d, chromosome %d: %v", e.Generation, e.Chromosome, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SearchError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("generation", e.Generation).
		Int("chromosome", e.Chromosome).
		Str("cause", e.Err.Error()).
		Str("type", "SearchError")
}

// NewSearchError は新しいSearchErrorを作成し、スタックトレースを付与します。
func NewSearchError(generation, chromosome int, err error) error {
	return errors.WithStack(&SearchError{Generation: generation, Chromosome: chromosome, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
