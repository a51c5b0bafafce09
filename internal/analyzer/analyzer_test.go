package analyzer

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"Cryptalyst/internal/calculator"
	"Cryptalyst/internal/model"
)

func articles(texts ...string) []model.NewsArticle {
	out := make([]model.NewsArticle, len(texts))
	for i, t := range texts {
		out[i] = model.NewsArticle{Title: t}
	}
	return out
}

func record(price float64, sma, ema, rsi, macd, signal model.Value) model.IndicatorRecord {
	return model.IndicatorRecord{
		PricePoint: model.PricePoint{Price: price},
		SMA:        sma, EMA: ema, RSI: rsi, MACD: macd, Signal: signal,
	}
}

func TestGenerate_EmptyNews(t *testing.T) {
	rep := GenerateAIAnalysis(Input{AssetName: "Bitcoin", AssetSymbol: "BTC", CurrentPrice: 100})
	if rep.Sentiment.Score != 50 {
		t.Errorf("expected sentiment score 50, got %v", rep.Sentiment.Score)
	}
	if rep.Sentiment.Sentiment != model.Neutral {
		t.Errorf("expected neutral sentiment, got %q", rep.Sentiment.Sentiment)
	}
	if rep.Sentiment.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", rep.Sentiment.Confidence)
	}
	if rep.Sentiment.NewsCount != 0 {
		t.Errorf("expected newsCount 0, got %d", rep.Sentiment.NewsCount)
	}
}

func TestGenerate_StatsAbsent(t *testing.T) {
	rep := GenerateAIAnalysis(Input{AssetSymbol: "ETH", CurrentPrice: 100})
	pt := rep.PriceTargets
	for name, v := range map[string]float64{
		"resistance1": pt.Resistance1, "resistance2": pt.Resistance2,
		"support1": pt.Support1, "support2": pt.Support2, "target": pt.TargetPrice,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s is not a number: %v", name, v)
		}
	}
	want := map[string]float64{
		"resistance1": 105, "resistance2": 110, "support1": 95, "support2": 90, "target": 103,
	}
	got := map[string]float64{
		"resistance1": pt.Resistance1, "resistance2": pt.Resistance2,
		"support1": pt.Support1, "support2": pt.Support2, "target": pt.TargetPrice,
	}
	for k, w := range want {
		if math.Abs(got[k]-w) > 1e-9 {
			t.Errorf("%s = %.6f, want %.6f", k, got[k], w)
		}
	}
}

func TestComputeTargets_UsesStats(t *testing.T) {
	stats := model.PriceStats{Min: model.Some(80), Max: model.Some(104), RangePercent: model.Some(30)}
	pt := ComputeTargets(100, stats, DefaultPolicy())
	// r1 = min(115, 101.92), s1 = max(85, 81.6)
	if math.Abs(pt.Resistance1-101.92) > 1e-9 || pt.Resistance2 != 104 {
		t.Errorf("unexpected resistance: %+v", pt)
	}
	if math.Abs(pt.Support1-85) > 1e-9 || pt.Support2 != 80 {
		t.Errorf("unexpected support: %+v", pt)
	}
	if math.Abs(pt.TargetPrice-109) > 1e-9 {
		t.Errorf("target = %v, want 109", pt.TargetPrice)
	}

	nan := model.PriceStats{Min: model.Some(math.NaN()), Max: model.Some(math.Inf(1)), RangePercent: model.Some(math.NaN())}
	pt = ComputeTargets(100, nan, DefaultPolicy())
	if math.Abs(pt.Resistance2-110) > 1e-9 || math.Abs(pt.Support2-90) > 1e-9 {
		t.Errorf("non-finite stats should use defaults, got %+v", pt)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	var prices []model.PricePoint
	for i := 0; i < 60; i++ {
		prices = append(prices, model.PricePoint{Price: 100 + 5*math.Sin(float64(i)/4)})
	}
	in := Input{
		AssetName: "Solana", AssetSymbol: "SOL", AssetType: model.AssetCrypto,
		CurrentPrice: 101, Change24h: 6.2,
		PriceHistory: prices,
		Stats:        calculator.ComputeStats(prices),
		News:         articles("Solana rally", "Network hack reported"),
		ChartData:    calculator.ApplyIndicators(prices, calculator.DefaultConfig()),
	}

	a := New(DefaultPolicy())
	n := 0
	a.NewID = func() string { n++; return strings.Repeat("x", n) }
	first := a.Generate(in)
	second := a.Generate(in)

	if first.Metadata.ID == second.Metadata.ID {
		t.Error("expected distinct report IDs")
	}
	if !reflect.DeepEqual(first.Sentiment, second.Sentiment) ||
		!reflect.DeepEqual(first.Technical, second.Technical) ||
		!reflect.DeepEqual(first.PriceTargets, second.PriceTargets) ||
		!reflect.DeepEqual(first.Risk, second.Risk) ||
		!reflect.DeepEqual(first.Recommendation, second.Recommendation) {
		t.Error("identical inputs produced different analysis sections")
	}
}

func TestRecommend_BuyBoundary(t *testing.T) {
	p := DefaultPolicy()
	low := model.RiskAssessment{Level: model.RiskLow}
	tests := []struct {
		score float64
		want  model.Action
	}{
		{65.0, model.ActionHold},
		{65.01, model.ActionBuy},
		{35.0, model.ActionHold},
		{34.99, model.ActionSell},
	}
	for _, tt := range tests {
		rec := Recommend(
			model.SentimentResult{Score: tt.score, Sentiment: model.Neutral},
			model.TechnicalResult{Score: tt.score, Trend: model.Neutral},
			low, p)
		if rec.OverallScore != tt.score {
			t.Errorf("overall = %v, want %v", rec.OverallScore, tt.score)
		}
		if rec.Action != tt.want {
			t.Errorf("overall %.2f: expected %s, got %s", tt.score, tt.want, rec.Action)
		}
	}
}

func TestRecommend_Confidence(t *testing.T) {
	p := DefaultPolicy()
	low := model.RiskAssessment{Level: model.RiskLow}

	buy := Recommend(model.SentimentResult{Score: 90, Sentiment: model.Bullish}, model.TechnicalResult{Score: 80, Trend: model.Bullish}, low, p)
	if buy.Action != model.ActionBuy || buy.Confidence != 53 {
		t.Errorf("expected BUY at 53, got %s at %v", buy.Action, buy.Confidence)
	}
	if len(buy.Reasoning) != 4 {
		t.Errorf("expected 4 reasons, got %v", buy.Reasoning)
	}

	capped := Recommend(model.SentimentResult{Score: 100}, model.TechnicalResult{Score: 100}, low, p)
	if capped.Confidence != 75 {
		t.Errorf("expected BUY confidence round(75)=75, got %v", capped.Confidence)
	}

	sell := Recommend(model.SentimentResult{Score: 20, Sentiment: model.Bearish}, model.TechnicalResult{Score: 20, Trend: model.Bearish}, low, p)
	if sell.Action != model.ActionSell || sell.Confidence != 45 {
		t.Errorf("expected SELL at 45, got %s at %v", sell.Action, sell.Confidence)
	}

	hold := Recommend(model.SentimentResult{Score: 55, Sentiment: model.Neutral}, model.TechnicalResult{Score: 50, Trend: model.Neutral}, low, p)
	if hold.Action != model.ActionHold || hold.Confidence != 62.5 {
		t.Errorf("expected HOLD at 62.5, got %s at %v", hold.Action, hold.Confidence)
	}
}

func TestRecommend_HighRiskBlocksBuy(t *testing.T) {
	rec := Recommend(model.SentimentResult{Score: 100}, model.TechnicalResult{Score: 100},
		model.RiskAssessment{Level: model.RiskHigh}, DefaultPolicy())
	if rec.Action != model.ActionHold {
		t.Fatalf("expected HOLD under high risk, got %s", rec.Action)
	}
	if rec.Confidence != 75 {
		t.Errorf("expected capped HOLD confidence 75, got %v", rec.Confidence)
	}
	if rec.Reasoning[0] != "Positive signals are outweighed by high risk" {
		t.Errorf("unexpected reasoning: %v", rec.Reasoning)
	}
}

func TestScoreSentiment(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name       string
		news       []model.NewsArticle
		score      float64
		label      string
		confidence float64
	}{
		{"no keywords", articles("Quarterly report published"), 50, model.Neutral, 10},
		{"positive", articles("Bitcoin rally continues", "Analysts see growth ahead"), 100, model.Bullish, 20},
		{"negative", articles("Exchange hack triggers selloff"), 0, model.Bearish, 10},
		{"three to one", articles("Surge and rally", "Breakout", "Minor decline"), 75, model.Bullish, 30},
		{"even split", articles("Rally then crash"), 50, model.Neutral, 10},
	}
	for _, tt := range tests {
		got := ScoreSentiment(tt.news, p)
		if got.Score != tt.score || got.Sentiment != tt.label || got.Confidence != tt.confidence {
			t.Errorf("%s: got score=%v label=%s conf=%v, want %v %s %v",
				tt.name, got.Score, got.Sentiment, got.Confidence, tt.score, tt.label, tt.confidence)
		}
	}
}

func TestScoreSentiment_DescriptionAndConfidenceCap(t *testing.T) {
	news := make([]model.NewsArticle, 12)
	for i := range news {
		news[i] = model.NewsArticle{Title: "Update", Description: "Strong GAINS expected"}
	}
	got := ScoreSentiment(news, DefaultPolicy())
	if got.Score != 100 {
		t.Errorf("expected description keywords to count, score=%v", got.Score)
	}
	if got.Confidence != 95 {
		t.Errorf("expected confidence capped at 95, got %v", got.Confidence)
	}
}

func TestScoreTechnical_Crossover(t *testing.T) {
	chart := []model.IndicatorRecord{
		record(100, model.Some(95), model.Some(96), model.Some(72), model.Some(1), model.Some(2)),
		record(101, model.Some(95), model.Some(96), model.Some(75), model.Some(3), model.Some(2)),
	}
	res := ScoreTechnical(chart, DefaultPolicy())
	if len(res.Signals) != 4 {
		t.Fatalf("expected 4 signals, got %d: %+v", len(res.Signals), res.Signals)
	}
	if res.BullishCount != 4 || res.BearishCount != 1 {
		t.Errorf("expected 4 bullish / 1 bearish votes, got %d / %d", res.BullishCount, res.BearishCount)
	}
	if res.Score != 80 || res.Trend != model.Bullish {
		t.Errorf("expected score 80 bullish, got %v %s", res.Score, res.Trend)
	}
	if res.Signals[3].Signal != "Bullish Crossover" || res.Signals[3].Votes != 2 {
		t.Errorf("unexpected MACD signal: %+v", res.Signals[3])
	}
}

func TestScoreTechnical_BearishCrossoverAndNoCrossover(t *testing.T) {
	bear := []model.IndicatorRecord{
		record(90, model.Some(95), model.None, model.None, model.Some(2), model.Some(1)),
		record(89, model.Some(95), model.None, model.None, model.Some(0.5), model.Some(1)),
	}
	res := ScoreTechnical(bear, DefaultPolicy())
	if res.BearishCount != 3 || res.BullishCount != 0 || res.Trend != model.Bearish {
		t.Errorf("expected 3 bearish votes, got %+v", res)
	}

	steady := []model.IndicatorRecord{
		record(90, model.None, model.None, model.None, model.Some(2), model.Some(1)),
		record(91, model.None, model.None, model.None, model.Some(3), model.Some(1)),
	}
	res = ScoreTechnical(steady, DefaultPolicy())
	if res.BullishCount != 1 || res.Signals[0].Signal != "MACD above signal line" {
		t.Errorf("expected a single-vote MACD signal, got %+v", res.Signals)
	}
}

func TestScoreTechnical_RSIZones(t *testing.T) {
	tests := []struct {
		rsi       float64
		direction string
	}{
		{75, model.Bearish},
		{25, model.Bullish},
		{55, model.Bullish},
		{45, model.Bearish},
		{50, model.Bearish},
		{30, model.Bearish},
		{70, model.Bullish},
	}
	for _, tt := range tests {
		res := ScoreTechnical([]model.IndicatorRecord{
			record(100, model.None, model.None, model.Some(tt.rsi), model.None, model.None),
		}, DefaultPolicy())
		if len(res.Signals) != 1 || res.Signals[0].Direction != tt.direction {
			t.Errorf("rsi %.0f: expected %s vote, got %+v", tt.rsi, tt.direction, res.Signals)
		}
	}
}

func TestScoreTechnical_NoData(t *testing.T) {
	res := ScoreTechnical(nil, DefaultPolicy())
	if res.Score != 50 || res.Trend != model.Neutral || res.Signals == nil || len(res.Signals) != 0 {
		t.Errorf("expected neutral empty result, got %+v", res)
	}
	warm := []model.IndicatorRecord{record(100, model.None, model.None, model.None, model.None, model.None)}
	if res := ScoreTechnical(warm, DefaultPolicy()); res.Score != 50 {
		t.Errorf("expected 50 with no votes, got %v", res.Score)
	}
}

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		rangePct, sentiment, technical float64
		level                          model.RiskLevel
		score                          int
	}{
		{10, 50, 50, model.RiskLow, 30},
		{25, 50, 100, model.RiskMedium, 40},
		{15, 90, 50, model.RiskMedium, 57},
		{25, 100, 50, model.RiskHigh, 75},
		{5, 50, 0, model.RiskLow, 10},
	}
	for _, tt := range tests {
		got := AssessRisk(tt.rangePct, tt.sentiment, tt.technical)
		if got.Level != tt.level || got.Score != tt.score {
			t.Errorf("AssessRisk(%v, %v, %v) = %+v, want %s/%d",
				tt.rangePct, tt.sentiment, tt.technical, got, tt.level, tt.score)
		}
	}
}

func TestGenerate_InsightsOrder(t *testing.T) {
	in := Input{
		AssetName: "Bitcoin", AssetSymbol: "BTC", CurrentPrice: 100, Change24h: -7.5,
		Stats: model.PriceStats{RangePercent: model.Some(30)},
		News:  articles("Bitcoin rally", "ETF adoption grows"),
		ChartData: []model.IndicatorRecord{
			record(100, model.Some(90), model.None, model.None, model.None, model.None),
		},
	}
	rep := GenerateAIAnalysis(in)
	if len(rep.Insights) != 4 {
		t.Fatalf("expected 4 insights, got %d: %v", len(rep.Insights), rep.Insights)
	}
	prefixes := []string{"News sentiment is bullish", "1 technical signals", "A 30.0% price range", "Strong downward momentum"}
	for i, pfx := range prefixes {
		if !strings.HasPrefix(rep.Insights[i], pfx) {
			t.Errorf("insight %d = %q, want prefix %q", i, rep.Insights[i], pfx)
		}
	}
}

func TestGenerate_FallbackPriceAndSummary(t *testing.T) {
	chart := []model.IndicatorRecord{record(42, model.None, model.None, model.None, model.None, model.None)}
	a := New(DefaultPolicy())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a.Now = func() time.Time { return fixed }
	rep := a.Generate(Input{AssetName: "Apple", AssetSymbol: "AAPL", AssetType: model.AssetStock, ChartData: chart})

	if rep.PriceTargets.CurrentPrice != 42 {
		t.Errorf("expected fallback price 42, got %v", rep.PriceTargets.CurrentPrice)
	}
	if !rep.Metadata.GeneratedAt.Equal(fixed) || rep.Metadata.Disclaimer == "" || rep.Metadata.ID == "" {
		t.Errorf("unexpected metadata: %+v", rep.Metadata)
	}
	want := "Apple (AAPL) shows a neutral outlook with a HOLD recommendation at 60% confidence and Low risk."
	if rep.Summary != want {
		t.Errorf("summary = %q, want %q", rep.Summary, want)
	}
}

func TestGenerate_OverallSixtyFiveHolds(t *testing.T) {
	// 80 sentiment with no technical votes averages to exactly 65.
	rep := GenerateAIAnalysis(Input{
		AssetSymbol: "BTC", CurrentPrice: 10,
		News: articles("rally surge gain breakout crash"),
	})
	if rep.Recommendation.OverallScore != 65 {
		t.Fatalf("overall = %v, want 65", rep.Recommendation.OverallScore)
	}
	if rep.Recommendation.Action != model.ActionHold {
		t.Errorf("expected HOLD at exactly 65, got %s", rep.Recommendation.Action)
	}
}
