package quiz

// Question is a multiple-choice prompt with exactly one correct option.
type Question struct {
	Prompt  string
	Options []string
	Answer  int // index into Options
}

// DefaultBank is the built-in question set used by `streak recover`.
var DefaultBank = []Question{
	{
		Prompt:  "Qual é o primeiro passo quando surge uma urgência?",
		Options: []string{"Ceder rapidamente", "Pausar e respirar", "Ignorar o que sente", "Ficar sozinho no quarto"},
		Answer:  1,
	},
	{
		Prompt:  "Quanto tempo uma urgência costuma durar se você não agir sobre ela?",
		Options: []string{"Algumas horas", "O dia inteiro", "Poucos minutos", "Nunca passa"},
		Answer:  2,
	},
	{
		Prompt:  "Qual destes é um gatilho comum de recaída?",
		Options: []string{"Tédio", "Beber água", "Fazer exercícios", "Dormir bem"},
		Answer:  0,
	},
	{
		Prompt:  "O que fazer depois de uma recaída?",
		Options: []string{"Desistir", "Registrar e recomeçar", "Esconder de todos", "Esperar uma semana"},
		Answer:  1,
	},
	{
		Prompt:  "Qual hábito ajuda a reduzir a ansiedade?",
		Options: []string{"Rolar as redes sociais", "Cafeína à noite", "Caminhar ao ar livre", "Ficar acordado até tarde"},
		Answer:  2,
	},
	{
		Prompt:  "Por que registrar emoção e contexto a cada urgência?",
		Options: []string{"Para identificar padrões", "Não serve para nada", "Para aumentar a sequência", "Para apagar o histórico"},
		Answer:  0,
	},
	{
		Prompt:  "Qual horário costuma concentrar mais urgências em quem tem insônia?",
		Options: []string{"Manhã", "Tarde", "Madrugada", "Meio-dia"},
		Answer:  2,
	},
	{
		Prompt:  "O que é uma boa alternativa quando o gatilho é a solidão?",
		Options: []string{"Isolar-se mais", "Ligar para alguém de confiança", "Abrir as redes sociais", "Ir dormir com o celular"},
		Answer:  1,
	},
}
