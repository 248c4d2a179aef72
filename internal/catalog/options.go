package catalog

import "github.com/futig/behavior-profile/internal/entity"

func opts(executor, planejador, analista, comunicador string) []entity.AnswerOption {
	return []entity.AnswerOption{
		{Value: entity.CategoryExecutor, Label: executor},
		{Value: entity.CategoryPlanejador, Label: planejador},
		{Value: entity.CategoryAnalista, Label: analista},
		{Value: entity.CategoryComunicador, Label: comunicador},
	}
}

// defaultOptions follows the question ids served by the question provider
var defaultOptions = map[int][]entity.AnswerOption{
	1: opts(
		"Parto para a ação e resolvo o problema imediatamente",
		"Organizo um plano com etapas e prazos antes de começar",
		"Levanto dados e analiso as causas antes de decidir",
		"Converso com as pessoas envolvidas para alinhar expectativas",
	),
	2: opts(
		"Assumo a liderança e defino o ritmo do time",
		"Distribuo tarefas e acompanho o cronograma",
		"Avalio riscos e garanto a qualidade das entregas",
		"Mantenho o grupo motivado e integrado",
	),
	3: opts(
		"Decido rápido, mesmo com poucas informações",
		"Sigo os critérios e processos definidos",
		"Comparo alternativas com base em evidências",
		"Busco a opinião de outras pessoas antes de decidir",
	),
	4: opts(
		"Metas desafiadoras e resultados visíveis",
		"Rotina estruturada e previsibilidade",
		"Problemas complexos que exigem investigação",
		"Contato frequente com pessoas e trabalho em equipe",
	),
	5: opts(
		"Fico impaciente quando as coisas demoram",
		"Fico desconfortável com mudanças de última hora",
		"Fico incomodado com decisões sem fundamento",
		"Fico desanimado em ambientes sem interação",
	),
	6: opts(
		"Prefiro receber objetivos e autonomia para executá-los",
		"Prefiro instruções claras e um passo a passo",
		"Prefiro ter acesso a todas as informações e detalhes",
		"Prefiro discutir as tarefas com o grupo",
	),
	7: opts(
		"Enfrento o conflito de forma direta",
		"Procuro uma regra ou acordo que resolva a situação",
		"Analiso os fatos de cada lado com imparcialidade",
		"Promovo o diálogo até chegar a um consenso",
	),
	8: opts(
		"Determinado e competitivo",
		"Organizado e confiável",
		"Criterioso e detalhista",
		"Sociável e comunicativo",
	),
	9: opts(
		"Entregar o resultado no menor tempo possível",
		"Cumprir o planejamento sem imprevistos",
		"Garantir que tudo esteja correto e bem fundamentado",
		"Garantir que todos estejam engajados e satisfeitos",
	),
	10: opts(
		"Quando atinjo uma meta difícil",
		"Quando concluo um projeto exatamente como planejado",
		"Quando encontro a solução para um problema complexo",
		"Quando sou reconhecido pelas pessoas com quem trabalho",
	),
}
